package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"changos/internal/board"
	"changos/internal/models"
)

var columns = []string{"", "TICKET", "TYPE", "DESCRIPTION", "ENV", "DEV", "SPRINT", "JIRA STATE", "APP"}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CHANGOS"))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(m.header()))
	b.WriteString("\n\n")

	switch m.screen {
	case screenForm:
		b.WriteString(m.formView())
	case screenLogin:
		b.WriteString(m.loginView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) header() string {
	user := "not logged in"
	if profile, ok := m.board.Session().Current(); ok {
		user = profile.Username
	}
	devs := m.board.Devs()
	shown := make([]string, 0, len(m.board.Developers()))
	for i, dev := range m.board.Developers() {
		mark := " "
		if devs.Has(dev) {
			mark = "x"
		}
		shown = append(shown, fmt.Sprintf("%d[%s]%s", i+1, mark, dev))
	}
	return fmt.Sprintf("user: %s | sort: %s | %s", user, m.board.Sort(), strings.Join(shown, " "))
}

func (m Model) listView() string {
	if m.loading && len(m.rows) == 0 {
		return "Loading tasks..."
	}
	if len(m.rows) == 0 {
		return "No tasks."
	}

	rows := make([][]string, 0, len(m.rows))
	for _, task := range m.rows {
		rows = append(rows, taskRow(task))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case row == m.cursor:
				return selectedStyle
			case row >= 0 && row < len(m.rows) && m.rows[row].Done:
				return doneStyle
			default:
				return cellStyle
			}
		})
	out := t.Render()
	if m.screen == screenConfirmDelete {
		if task, ok := m.selected(); ok {
			out += "\n" + errorStyle.Render(fmt.Sprintf("Delete %s? (y/N)", task.Ticket))
		}
	}
	return out
}

func taskRow(task models.Task) []string {
	done := "[ ]"
	if task.Done {
		done = "[x]"
	}
	return []string{
		done,
		task.Ticket,
		string(task.Type),
		truncate(task.Description, 40),
		string(task.Environment),
		task.Dev,
		task.Sprint,
		string(task.JiraState),
		string(task.App),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) formView() string {
	_, mode, id := m.board.Form()
	var b strings.Builder
	title := "New task"
	if mode == board.ModeEdit {
		title = "Edit task " + id
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	for i, name := range m.fields {
		b.WriteString(labelStyle.Render(name))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.loading {
		b.WriteString("\nSaving...")
	}
	return b.String()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Login"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("username"))
	b.WriteString(m.login[0].View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("password"))
	b.WriteString(m.login[1].View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	if m.status == nil {
		return ""
	}
	n, ok := m.status.Get()
	if !ok {
		return ""
	}
	switch n.Level {
	case board.LevelError:
		return errorStyle.Render(n.Message)
	case board.LevelSuccess:
		return successStyle.Render(n.Message)
	default:
		return infoStyle.Render(n.Message)
	}
}

func (m Model) help() string {
	switch m.screen {
	case screenForm:
		return "tab/shift+tab move • enter next/save • ctrl+s save • esc cancel"
	case screenLogin:
		return "tab switch • enter submit • esc back"
	case screenConfirmDelete:
		return "y confirm • any other key cancels"
	default:
		return "j/k move • n new • e edit • d delete • b copy branch • s sort • 1-9 toggle dev • a all devs • r refresh • l login • o logout • q quit"
	}
}
