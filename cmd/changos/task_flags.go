package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"changos/internal/board"
)

// taskFlags holds the field flags shared by create and edit.
type taskFlags struct {
	ticket      string
	taskType    string
	description string
	done        bool
	environment string
	dev         string
	jira        string
	jiraState   string
	sprint      string
	app         string
}

// flagFields maps flag names to form field names.
var flagFields = []struct {
	flag  string
	field string
}{
	{"ticket", board.FieldTicket},
	{"type", board.FieldType},
	{"description", board.FieldDescription},
	{"done", board.FieldDone},
	{"environment", board.FieldEnvironment},
	{"dev", board.FieldDev},
	{"jira", board.FieldJira},
	{"jira-state", board.FieldJiraState},
	{"sprint", board.FieldSprint},
	{"app", board.FieldApp},
}

func bindTaskFlags(cmd *cobra.Command, opts *taskFlags) {
	cmd.Flags().StringVar(&opts.ticket, "ticket", "", "ticket reference")
	cmd.Flags().StringVarP(&opts.taskType, "type", "t", "", "task type (BG, FT, HF or bug, feature, hot fix)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "task description")
	cmd.Flags().BoolVar(&opts.done, "done", false, "mark the task done")
	cmd.Flags().StringVarP(&opts.environment, "environment", "e", "", "environment (develop, test, stage, production)")
	cmd.Flags().StringVar(&opts.dev, "dev", "", "developer")
	cmd.Flags().StringVar(&opts.jira, "jira", "", "jira link")
	cmd.Flags().StringVar(&opts.jiraState, "jira-state", "", "jira state (empty clears)")
	cmd.Flags().StringVar(&opts.sprint, "sprint", "", "sprint")
	cmd.Flags().StringVar(&opts.app, "app", "", "app (app or mobile, web; empty clears)")
}

func (o *taskFlags) value(flag string) string {
	switch flag {
	case "ticket":
		return o.ticket
	case "type":
		return o.taskType
	case "description":
		return o.description
	case "done":
		return strconv.FormatBool(o.done)
	case "environment":
		return o.environment
	case "dev":
		return o.dev
	case "jira":
		return o.jira
	case "jira-state":
		return o.jiraState
	case "sprint":
		return o.sprint
	case "app":
		return o.app
	default:
		return ""
	}
}

// applyTaskFlags copies every flag the user set into the open draft and
// reports how many were applied.
func applyTaskFlags(cmd *cobra.Command, opts *taskFlags, b *board.Board) (int, error) {
	applied := 0
	for _, ff := range flagFields {
		if !cmd.Flags().Changed(ff.flag) {
			continue
		}
		if err := b.SetField(ff.field, opts.value(ff.flag)); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
