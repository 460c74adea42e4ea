package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"changos/internal/api"
	"changos/internal/board"
	"changos/internal/config"
	"changos/internal/models"
)

type createCmdOptions struct {
	fields   taskFlags
	filePath string
}

func newCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &createCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, cfg, opts, jsonOutput)
		},
	}

	bindTaskFlags(cmd, &opts.fields)
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "markdown file for batch create")
	return cmd
}

func runCreate(cmd *cobra.Command, cfg *config.Config, opts *createCmdOptions, jsonOutput *bool) error {
	return withClient(cfg, func(client *api.Client) error {
		b, err := newBoard(cfg, client, cliNotifier(*jsonOutput))
		if err != nil {
			return err
		}

		if opts.filePath != "" {
			return runCreateFromFile(cmd, b, opts, jsonOutput)
		}

		b.OpenForCreate()
		if _, err := applyTaskFlags(cmd, &opts.fields, b); err != nil {
			b.Cancel()
			return err
		}
		saved, err := confirmQuietly(cmd.Context(), b)
		if err != nil {
			return err
		}
		return writeSaved(saved, jsonOutput)
	})
}

func runCreateFromFile(cmd *cobra.Command, b *board.Board, opts *createCmdOptions, jsonOutput *bool) error {
	data, err := os.ReadFile(opts.filePath)
	if err != nil {
		return err
	}

	frontMatter, items, err := parseMarkdown(string(data))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("no list items found in %s", opts.filePath)
	}

	defaults, err := frontMatterToFields(frontMatter)
	if err != nil {
		return err
	}

	created := make([]models.Task, 0, len(items))
	for _, item := range items {
		saved, err := createFromItem(cmd, b, opts, defaults, item)
		if err != nil {
			return err
		}
		created = append(created, saved)
	}

	if *jsonOutput {
		return writeJSON(created)
	}
	for _, task := range created {
		if err := writePlain("%s\n", task.ID); err != nil {
			return err
		}
	}
	return nil
}

func createFromItem(cmd *cobra.Command, b *board.Board, opts *createCmdOptions, defaults []fieldValue, item string) (models.Task, error) {
	b.OpenForCreate()
	for _, fv := range defaults {
		if err := b.SetField(fv.field, fv.value); err != nil {
			b.Cancel()
			return models.Task{}, err
		}
	}
	if _, err := applyTaskFlags(cmd, &opts.fields, b); err != nil {
		b.Cancel()
		return models.Task{}, err
	}
	if err := b.SetField(board.FieldDescription, item); err != nil {
		b.Cancel()
		return models.Task{}, err
	}
	return confirmQuietly(cmd.Context(), b)
}

// confirmQuietly ignores a failed refresh after a successful save.
func confirmQuietly(ctx context.Context, b *board.Board) (models.Task, error) {
	saved, err := b.Confirm(ctx)
	if err != nil {
		if _, mode, _ := b.Form(); mode != board.ModeClosed {
			b.Cancel()
			return models.Task{}, err
		}
	}
	return saved, nil
}

func writeSaved(task models.Task, jsonOutput *bool) error {
	if *jsonOutput {
		return writeJSON(task)
	}
	if task.ID == "" {
		return nil
	}
	return writePlain("%s\n", task.ID)
}
