package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"changos/internal/format"
	"changos/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeTaskList(tasks []models.Task) error {
	return renderTaskTable(os.Stdout, tasks)
}

func renderTaskTable(w io.Writer, tasks []models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, formatTaskRow(task))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "TICKET", "TYPE", "DESCRIPTION", "ENV", "DEV", "SPRINT", "JIRA STATE", "APP").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatTaskRow(task models.Task) []string {
	done := ""
	if task.Done {
		done = "x"
	}
	return []string{
		task.ID,
		done,
		task.Ticket,
		task.Type.Label(),
		task.Description,
		string(task.Environment),
		task.Dev,
		task.Sprint,
		string(task.JiraState),
		string(task.App),
	}
}

func writeTaskDetail(task models.Task) error {
	lines := []string{
		fmt.Sprintf("id: %s", task.ID),
		fmt.Sprintf("ticket: %s", task.Ticket),
		fmt.Sprintf("type: %s", task.Type.Label()),
		fmt.Sprintf("done: %t", task.Done),
		fmt.Sprintf("environment: %s", task.Environment),
		fmt.Sprintf("dev: %s", task.Dev),
	}
	if task.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", task.Description))
	}
	if task.Sprint != "" {
		lines = append(lines, fmt.Sprintf("sprint: %s", task.Sprint))
	}
	if task.Jira != "" {
		lines = append(lines, fmt.Sprintf("jira: %s", task.Jira))
	}
	if task.JiraState != "" {
		lines = append(lines, fmt.Sprintf("jira_state: %s", task.JiraState))
	}
	if task.App != "" {
		lines = append(lines, fmt.Sprintf("app: %s", task.App))
	}
	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
