package main

import (
	"sort"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show task store info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Info(cmd.Context())
				if api.IsNotFound(err) {
					// Remote stores only serve the task endpoints.
					if err := client.Ping(cmd.Context()); err != nil {
						return err
					}
					if *jsonOutput {
						return writeJSON(map[string]string{"api_url": client.BaseURL(), "status": "reachable"})
					}
					_ = writePlain("api_url: %s\n", client.BaseURL())
					_ = writePlain("status: reachable (store does not report info)\n")
					return nil
				}
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("api_url: %s\n", client.BaseURL())
				_ = writePlain("db_path: %s\n", resp.DBPath)
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("total_tasks: %d\n", resp.TotalTasks)
				_ = writePlain("done_tasks: %d\n", resp.DoneTasks)

				devs := make([]string, 0, len(resp.TasksByDev))
				for dev := range resp.TasksByDev {
					devs = append(devs, dev)
				}
				sort.Strings(devs)
				for _, dev := range devs {
					_ = writePlain("  %s: %d\n", dev, resp.TasksByDev[dev])
				}
				return nil
			})
		},
	}
	return cmd
}
