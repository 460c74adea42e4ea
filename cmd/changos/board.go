package main

import (
	"fmt"
	"log/slog"
	"os"

	"changos/internal/board"
	"changos/internal/branch"
	"changos/internal/config"
)

// newBoard builds a board over client and restores the saved session.
func newBoard(cfg *config.Config, client board.TaskClient, notifier board.Notifier) (*board.Board, error) {
	b := board.New(client, board.Options{
		Developers:   cfg.Developers,
		DefaultDev:   cfg.DefaultDev,
		Profiles:     cfg.Profiles,
		RequireOwner: cfg.RequireOwner,
		Notifier:     notifier,
		Clipboard:    branch.SystemClipboard{},
		Logger:       slog.Default().With("component", "board"),
	})

	username, err := loadSession(cfg.SessionPath)
	if err != nil {
		return nil, err
	}
	if username != "" && !b.Session().Restore(username) {
		slog.Warn("saved session does not match a configured profile", "username", username)
	}
	return b, nil
}

// cliNotifier prints non-error notifications to stderr. Errors are returned
// to main and printed with hints there.
func cliNotifier(quiet bool) board.Notifier {
	return board.NotifierFunc(func(n board.Notification) {
		if quiet || n.Level == board.LevelError {
			return
		}
		fmt.Fprintln(os.Stderr, n.Message)
	})
}
