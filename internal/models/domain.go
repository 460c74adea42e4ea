package models

import (
	"fmt"
	"strings"
)

// TaskType defines allowed ticket categories. Values are the codes the
// remote store expects.
type TaskType string

const (
	TypeBug     TaskType = "BG"
	TypeFeature TaskType = "FT"
	TypeHotfix  TaskType = "HF"
)

// Environment defines the deployment stage a ticket lives in.
type Environment string

const (
	EnvDevelop    Environment = "develop"
	EnvTest       Environment = "test"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// JiraState mirrors the workflow column of the linked issue.
type JiraState string

const (
	JiraToDo               JiraState = "to do"
	JiraInProgress         JiraState = "in progress"
	JiraCodeReview         JiraState = "code review"
	JiraInTesting          JiraState = "in testing"
	JiraReadyForStage      JiraState = "ready for stage"
	JiraReadyForProduction JiraState = "ready for production"
	JiraDone               JiraState = "done"
	JiraBlocked            JiraState = "blocked"
)

// App identifies which client the ticket targets.
type App string

const (
	AppMobile App = "app"
	AppWeb    App = "web"
)

const (
	DefaultType        = TypeBug
	DefaultEnvironment = EnvDevelop
)

var taskTypes = []TaskType{TypeBug, TypeFeature, TypeHotfix}

var taskTypeLabels = map[string]TaskType{
	"bug":     TypeBug,
	"feature": TypeFeature,
	"hotfix":  TypeHotfix,
	"hot fix": TypeHotfix,
}

var environments = []Environment{EnvDevelop, EnvTest, EnvStage, EnvProduction}

var jiraStates = []JiraState{
	JiraToDo,
	JiraInProgress,
	JiraCodeReview,
	JiraInTesting,
	JiraReadyForStage,
	JiraReadyForProduction,
	JiraDone,
	JiraBlocked,
}

var apps = []App{AppMobile, AppWeb}

// TaskTypes returns the allowed task types in display order.
func TaskTypes() []TaskType { return append([]TaskType(nil), taskTypes...) }

// Environments returns the allowed environments in display order.
func Environments() []Environment { return append([]Environment(nil), environments...) }

// JiraStates returns the allowed issue-tracker states in display order.
func JiraStates() []JiraState { return append([]JiraState(nil), jiraStates...) }

// Apps returns the allowed app targets.
func Apps() []App { return append([]App(nil), apps...) }

// Label returns the human name of a task type.
func (t TaskType) Label() string {
	switch t {
	case TypeBug:
		return "bug"
	case TypeFeature:
		return "feature"
	case TypeHotfix:
		return "hot fix"
	default:
		return string(t)
	}
}

func IsValidTaskType(value TaskType) bool {
	for _, t := range taskTypes {
		if t == value {
			return true
		}
	}
	return false
}

func IsValidEnvironment(value Environment) bool {
	for _, e := range environments {
		if e == value {
			return true
		}
	}
	return false
}

func IsValidJiraState(value JiraState) bool {
	for _, s := range jiraStates {
		if s == value {
			return true
		}
	}
	return false
}

func IsValidApp(value App) bool {
	for _, a := range apps {
		if a == value {
			return true
		}
	}
	return false
}

// ParseTaskType accepts a code (BG) or a label (bug), case-insensitively.
func ParseTaskType(raw string) (TaskType, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("type is required")
	}
	if t := TaskType(strings.ToUpper(value)); IsValidTaskType(t) {
		return t, nil
	}
	if t, ok := taskTypeLabels[strings.ToLower(value)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("invalid type: %s", value)
}

func ParseEnvironment(raw string) (Environment, error) {
	value := Environment(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("environment is required")
	}
	if !IsValidEnvironment(value) {
		return "", fmt.Errorf("invalid environment: %s", value)
	}
	return value, nil
}

// ParseJiraState accepts an empty value, which clears the optional field.
func ParseJiraState(raw string) (JiraState, error) {
	value := JiraState(strings.Join(strings.Fields(strings.ToLower(raw)), " "))
	if value == "" {
		return "", nil
	}
	if !IsValidJiraState(value) {
		return "", fmt.Errorf("invalid jira state: %s", raw)
	}
	return value, nil
}

// ParseApp accepts an empty value, which clears the optional field.
// "mobile" is accepted for the app client.
func ParseApp(raw string) (App, error) {
	value := App(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", nil
	}
	if value == "mobile" {
		return AppMobile, nil
	}
	if !IsValidApp(value) {
		return "", fmt.Errorf("invalid app: %s", value)
	}
	return value, nil
}
