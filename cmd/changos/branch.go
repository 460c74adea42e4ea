package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/branch"
	"changos/internal/config"
)

type branchResponse struct {
	ID       string `json:"id" yaml:"id"`
	Branch   string `json:"branch" yaml:"branch"`
	Checkout string `json:"checkout" yaml:"checkout"`
	Copied   bool   `json:"copied" yaml:"copied"`
}

func newBranchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		copyName bool
		checkout bool
	)

	cmd := &cobra.Command{
		Use:   "branch <id>",
		Short: "Print the git branch name for a task",
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

				task, ok := b.Cache().Find(args[0])
				if !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				name := branch.ForTask(task)
				resp := branchResponse{ID: task.ID, Branch: name, Checkout: branch.CheckoutCommand(name)}

				if copyName {
					if _, err := b.CopyBranch(task.ID); err != nil {
						return err
					}
					resp.Copied = true
				}

				if *jsonOutput {
					return writeJSON(resp)
				}
				if checkout {
					return writePlain("%s\n", resp.Checkout)
				}
				return writePlain("%s\n", resp.Branch)
			})
		},
	}

	cmd.Flags().BoolVarP(&copyName, "copy", "c", false, "copy the branch name to the clipboard")
	cmd.Flags().BoolVar(&checkout, "checkout", false, "print the git checkout command instead")
	return cmd
}
