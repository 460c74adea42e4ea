package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"changos/internal/config"
	"changos/internal/store"
)

func newCleanupCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		olderThanDays int
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete done tasks from the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThanDays < 0 {
				return fmt.Errorf("--older-than-days must be >= 0")
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
			result, err := st.CleanupDoneTasks(cmd.Context(), cutoff, dryRun)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return writeJSON(result)
			}
			verb := "Deleted"
			if result.DryRun {
				verb = "Would delete"
			}
			_ = writePlain("%s %d done task(s)\n", verb, result.Count)
			for _, id := range result.TaskIDs {
				_ = writePlain("  %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanDays, "older-than-days", 30, "only tasks last updated this many days ago or earlier")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list candidates without deleting")
	return cmd
}
