package main

import (
	"errors"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/config"
)

func newEditCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				b, err := newBoard(cfg, client, cliNotifier(*jsonOutput))
				if err != nil {
					return err
				}
				if _, err := b.Load(cmd.Context()); err != nil {
					return err
				}
				if err := b.OpenForEdit(args[0]); err != nil {
					return err
				}

				applied, err := applyTaskFlags(cmd, opts, b)
				if err != nil {
					b.Cancel()
					return err
				}
				if applied == 0 {
					b.Cancel()
					return errors.New("nothing to update; pass at least one field flag")
				}

				saved, err := confirmQuietly(cmd.Context(), b)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(saved)
				}
				return writeTaskDetail(saved)
			})
		},
	}

	bindTaskFlags(cmd, opts)
	return cmd
}
