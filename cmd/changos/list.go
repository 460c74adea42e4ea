package main

import (
	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/board"
	"changos/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		sortKey string
		devs    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := board.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				b, err := newBoard(cfg, client, cliNotifier(*jsonOutput))
				if err != nil {
					return err
				}
				b.SetSort(key)
				if selected := splitCommaList(devs); len(selected) > 0 {
					b.SetDevs(selected...)
				}

				rows, err := b.Load(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(rows)
				}
				return writeTaskList(rows)
			})
		},
	}

	cmd.Flags().StringVarP(&sortKey, "sort", "s", string(board.DefaultSort), "sort key")
	cmd.Flags().StringVar(&devs, "dev", "", "comma separated developers to show (default all)")
	return cmd
}
