package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"changos/internal/config"
	"changos/internal/format"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		yamlOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "changos",
		Short:         "Changos is a team task board backed by a shared task store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			outputFormatter = format.JSONFormatter{}
			if yamlOutput {
				outputFormatter = format.YAMLFormatter{}
				jsonOutput = true
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	cmd.AddCommand(
		newListCmd(cfg, &jsonOutput),
		newCreateCmd(cfg, &jsonOutput),
		newEditCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg, &jsonOutput),
		newBranchCmd(cfg, &jsonOutput),
		newLoginCmd(cfg),
		newLogoutCmd(cfg),
		newWhoamiCmd(cfg, &jsonOutput),
		newHashPasswordCmd(),
		newBoardCmd(cfg),
		newSrvCmd(cfg),
		newInfoCmd(cfg, &jsonOutput),
		newMigrateCmd(cfg, &jsonOutput),
		newCleanupCmd(cfg, &jsonOutput),
		newConfigCmd(cfg, &jsonOutput),
	)

	return cmd
}
