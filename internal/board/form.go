package board

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"changos/internal/models"
)

// Mode is the state of the task form.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Form field names accepted by SetField.
const (
	FieldTicket      = "ticket"
	FieldType        = "type"
	FieldDescription = "description"
	FieldDone        = "done"
	FieldEnvironment = "environment"
	FieldDev         = "dev"
	FieldJira        = "jira"
	FieldJiraState   = "jira_state"
	FieldSprint      = "sprint"
	FieldApp         = "app"
)

var fieldNames = []string{
	FieldTicket, FieldType, FieldDescription, FieldDone, FieldEnvironment,
	FieldDev, FieldJira, FieldJiraState, FieldSprint, FieldApp,
}

// FieldNames returns the editable fields in form order.
func FieldNames() []string { return append([]string(nil), fieldNames...) }

// Form holds the draft record being created or edited. It is not safe for
// concurrent use; Board serializes access.
type Form struct {
	defaultDev string
	devs       []string

	draft    models.Task
	mode     Mode
	editedID string
}

// NewForm returns a closed form. devs, when non-empty, constrains the dev field.
func NewForm(defaultDev string, devs []string) *Form {
	f := &Form{defaultDev: defaultDev, devs: append([]string(nil), devs...)}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.draft = models.DefaultTask(f.defaultDev)
	f.mode = ModeClosed
	f.editedID = ""
}

// OpenForCreate starts a new draft from the defaults.
func (f *Form) OpenForCreate() {
	f.draft = models.DefaultTask(f.defaultDev)
	f.mode = ModeCreate
	f.editedID = ""
}

// OpenForEdit loads a persisted record into the draft.
func (f *Form) OpenForEdit(task models.Task) error {
	if !task.Persisted() {
		return fmt.Errorf("task has no id")
	}
	f.draft = task.Editable()
	f.mode = ModeEdit
	f.editedID = task.ID
	return nil
}

// Cancel discards the draft and closes the form.
func (f *Form) Cancel() { f.reset() }

func (f *Form) Mode() Mode         { return f.mode }
func (f *Form) EditedID() string   { return f.editedID }
func (f *Form) Draft() models.Task { return f.draft }

// Value returns the draft's current value for a field as text.
func (f *Form) Value(name string) string {
	switch canonicalField(name) {
	case FieldTicket:
		return f.draft.Ticket
	case FieldType:
		return string(f.draft.Type)
	case FieldDescription:
		return f.draft.Description
	case FieldDone:
		return strconv.FormatBool(f.draft.Done)
	case FieldEnvironment:
		return string(f.draft.Environment)
	case FieldDev:
		return f.draft.Dev
	case FieldJira:
		return f.draft.Jira
	case FieldJiraState:
		return string(f.draft.JiraState)
	case FieldSprint:
		return f.draft.Sprint
	case FieldApp:
		return string(f.draft.App)
	default:
		return ""
	}
}

// SetField assigns one draft field. Invalid values leave the draft unchanged.
func (f *Form) SetField(name, value string) error {
	switch canonicalField(name) {
	case FieldTicket:
		f.draft.Ticket = strings.TrimSpace(value)
	case FieldType:
		t, err := models.ParseTaskType(value)
		if err != nil {
			return err
		}
		f.draft.Type = t
	case FieldDescription:
		f.draft.Description = value
	case FieldDone:
		done, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid done value: %s", value)
		}
		f.draft.Done = done
	case FieldEnvironment:
		env, err := models.ParseEnvironment(value)
		if err != nil {
			return err
		}
		f.draft.Environment = env
	case FieldDev:
		dev := strings.TrimSpace(value)
		if len(f.devs) > 0 && !slices.Contains(f.devs, dev) {
			return fmt.Errorf("unknown dev: %s", value)
		}
		f.draft.Dev = dev
	case FieldJira:
		f.draft.Jira = strings.TrimSpace(value)
	case FieldJiraState:
		state, err := models.ParseJiraState(value)
		if err != nil {
			return err
		}
		f.draft.JiraState = state
	case FieldSprint:
		f.draft.Sprint = strings.TrimSpace(value)
	case FieldApp:
		app, err := models.ParseApp(value)
		if err != nil {
			return err
		}
		f.draft.App = app
	default:
		return fmt.Errorf("unknown field: %s", name)
	}
	return nil
}

func canonicalField(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "enviroment":
		return FieldEnvironment
	case "jira-state", "jirastate":
		return FieldJiraState
	}
	return name
}
