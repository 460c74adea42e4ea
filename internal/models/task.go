package models

// Task is one ticket on the board. ID is assigned by the task store and is
// empty until the record has been persisted.
//
// The environment key keeps the remote API's historical spelling.
type Task struct {
	ID          string      `json:"_id,omitempty" yaml:"id,omitempty"`
	Ticket      string      `json:"ticket" yaml:"ticket"`
	Type        TaskType    `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Done        bool        `json:"done" yaml:"done"`
	Environment Environment `json:"enviroment" yaml:"environment"`
	Dev         string      `json:"dev" yaml:"dev"`
	Jira        string      `json:"jira" yaml:"jira"`
	JiraState   JiraState   `json:"jira_state,omitempty" yaml:"jira_state,omitempty"`
	Sprint      string      `json:"sprint" yaml:"sprint"`
	App         App         `json:"app,omitempty" yaml:"app,omitempty"`
}

// Persisted reports whether the store has assigned an id.
func (t Task) Persisted() bool {
	return t.ID != ""
}

// Editable returns the record without its id.
func (t Task) Editable() Task {
	t.ID = ""
	return t
}

// DefaultTask returns the values a new draft starts from.
func DefaultTask(dev string) Task {
	return Task{
		Type:        DefaultType,
		Environment: DefaultEnvironment,
		Dev:         dev,
	}
}
