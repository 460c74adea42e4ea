package tui

import "changos/internal/models"

type rowsMsg struct {
	rows []models.Task
	err  error
}

type savedMsg struct {
	err error
}

type deletedMsg struct {
	err error
}
