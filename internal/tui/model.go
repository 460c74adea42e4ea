// Package tui is the terminal front end over a board.Board.
package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"changos/internal/auth"
	"changos/internal/board"
	"changos/internal/models"
)

type screen int

const (
	screenList screen = iota
	screenForm
	screenLogin
	screenConfirmDelete
)

// Options wires session persistence into the terminal board.
type Options struct {
	Context  context.Context
	OnLogin  func(profile auth.Profile)
	OnLogout func()
}

// Model is the bubbletea model of the terminal board.
type Model struct {
	board  *board.Board
	status *board.Latest
	opts   Options

	screen  screen
	rows    []models.Task
	cursor  int
	loading bool
	width   int

	fields []string
	inputs []textinput.Model
	focus  int

	login []textinput.Model
}

// New returns a model over b. status must be the notifier b reports to.
func New(b *board.Board, status *board.Latest, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	fields := board.FieldNames()
	inputs := make([]textinput.Model, len(fields))
	for i, name := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = name
		in.CharLimit = 256
		inputs[i] = in
	}

	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return Model{
		board:  b,
		status: status,
		opts:   opts,
		fields: fields,
		inputs: inputs,
		login:  []textinput.Model{user, pass},
	}
}

// Run starts the terminal board and blocks until the user quits.
func Run(b *board.Board, status *board.Latest, opts Options) error {
	_, err := tea.NewProgram(New(b, status, opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd(false)
}

func (m Model) loadCmd(force bool) tea.Cmd {
	b, ctx := m.board, m.opts.Context
	return func() tea.Msg {
		var (
			rows []models.Task
			err  error
		)
		if force {
			rows, err = b.Refresh(ctx)
		} else {
			rows, err = b.Load(ctx)
		}
		return rowsMsg{rows: rows, err: err}
	}
}

func (m Model) confirmCmd() tea.Cmd {
	b, ctx := m.board, m.opts.Context
	return func() tea.Msg {
		_, err := b.Confirm(ctx)
		return savedMsg{err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	b, ctx := m.board, m.opts.Context
	return func() tea.Msg {
		_, err := b.Delete(ctx, id)
		return deletedMsg{err: err}
	}
}

func (m Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.Task{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) setRows(rows []models.Task) {
	m.rows = rows
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case rowsMsg:
		m.loading = false
		if msg.err == nil {
			m.setRows(msg.rows)
		}
		return m, nil
	case savedMsg:
		m.loading = false
		if _, mode, _ := m.board.Form(); mode == board.ModeClosed {
			m.screen = screenList
		}
		m.setRows(m.board.Rows())
		return m, nil
	case deletedMsg:
		m.loading = false
		m.setRows(m.board.Rows())
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenForm:
			return m.updateForm(msg)
		case screenLogin:
			return m.updateLogin(msg)
		case screenConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, m.loadCmd(true)
	case "s":
		m.board.SetSort(nextSortKey(m.board.Sort()))
		m.setRows(m.board.Rows())
	case "a":
		m.board.SetDevs(m.board.Developers()...)
		m.setRows(m.board.Rows())
	case "n":
		m.board.OpenForCreate()
		cmd := m.openForm()
		return m, cmd
	case "e", "enter":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.board.OpenForEdit(task.ID); err != nil {
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd
	case "d":
		if _, ok := m.selected(); ok {
			m.screen = screenConfirmDelete
		}
	case "b":
		if task, ok := m.selected(); ok {
			_, _ = m.board.CopyBranch(task.ID)
		}
	case "l":
		m.screen = screenLogin
		for i := range m.login {
			m.login[i].SetValue("")
			m.login[i].Blur()
		}
		cmd := m.login[0].Focus()
		return m, cmd
	case "o":
		m.board.Logout()
		if m.opts.OnLogout != nil {
			m.opts.OnLogout()
		}
	case "esc":
		if m.status != nil {
			m.status.Dismiss()
		}
	default:
		if n, err := strconv.Atoi(key); err == nil {
			devs := m.board.Developers()
			if n >= 1 && n <= len(devs) {
				m.board.ToggleDev(devs[n-1])
				m.setRows(m.board.Rows())
			}
		}
	}
	return m, nil
}

func (m *Model) openForm() tea.Cmd {
	m.screen = screenForm
	m.focus = 0
	for i, name := range m.fields {
		m.inputs[i].SetValue(m.board.FieldValue(name))
		m.inputs[i].Blur()
	}
	return m.inputs[0].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.board.Cancel()
		m.screen = screenList
		return m, nil
	case "tab", "down":
		cmd := m.moveFocus(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.moveFocus(-1)
		return m, cmd
	case "enter", "ctrl+s":
		if msg.String() == "enter" && m.focus < len(m.inputs)-1 {
			cmd := m.moveFocus(1)
			return m, cmd
		}
		if m.loading {
			return m, nil
		}
		for i, name := range m.fields {
			if err := m.board.SetField(name, m.inputs[i].Value()); err != nil {
				m.inputs[m.focus].Blur()
				m.focus = i
				cmd := m.inputs[i].Focus()
				return m, cmd
			}
		}
		m.loading = true
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "tab", "shift+tab", "up", "down":
		cmd := m.toggleLoginFocus()
		return m, cmd
	case "enter":
		if m.login[0].Focused() {
			cmd := m.toggleLoginFocus()
			return m, cmd
		}
		profile, err := m.board.Login(m.login[0].Value(), m.login[1].Value())
		m.login[1].SetValue("")
		if err != nil {
			return m, nil
		}
		if m.opts.OnLogin != nil {
			m.opts.OnLogin(profile)
		}
		m.screen = screenList
		return m, nil
	}

	var cmd tea.Cmd
	for i := range m.login {
		if m.login[i].Focused() {
			m.login[i], cmd = m.login[i].Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) toggleLoginFocus() tea.Cmd {
	if m.login[0].Focused() {
		m.login[0].Blur()
		return m.login[1].Focus()
	}
	m.login[1].Blur()
	return m.login[0].Focus()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.screen = screenList
	if msg.String() != "y" {
		return m, nil
	}
	task, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.loading = true
	return m, m.deleteCmd(task.ID)
}

func nextSortKey(current board.SortKey) board.SortKey {
	keys := board.SortKeys()
	for i, key := range keys {
		if key == current {
			return keys[(i+1)%len(keys)]
		}
	}
	return board.DefaultSort
}
