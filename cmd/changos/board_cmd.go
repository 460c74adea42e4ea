package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/auth"
	"changos/internal/board"
	"changos/internal/config"
	"changos/internal/tui"
)

func newBoardCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the terminal task board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				status := &board.Latest{}
				b, err := newBoard(cfg, client, status)
				if err != nil {
					return err
				}
				return tui.Run(b, status, tui.Options{
					Context: cmd.Context(),
					OnLogin: func(profile auth.Profile) {
						if err := saveSession(cfg.SessionPath, profile); err != nil {
							slog.Warn("save session", "error", err)
						}
					},
					OnLogout: func() {
						if err := clearSession(cfg.SessionPath); err != nil {
							slog.Warn("clear session", "error", err)
						}
					},
				})
			})
		},
	}
}
