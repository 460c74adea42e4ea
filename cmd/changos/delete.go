package main

import (
	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/config"
)

func newDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				b, err := newBoard(cfg, client, cliNotifier(*jsonOutput))
				if err != nil {
					return err
				}
				if _, err := b.Load(cmd.Context()); err != nil {
					return err
				}

				deleted, err := b.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(deleted)
				}
				return nil
			})
		},
	}
}
