package api

import "changos/internal/models"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// TaskPatch is an update body. Absent keys decode to nil and leave the
// stored field alone.
type TaskPatch struct {
	Ticket      *string             `json:"ticket,omitempty"`
	Type        *models.TaskType    `json:"type,omitempty"`
	Description *string             `json:"description,omitempty"`
	Done        *bool               `json:"done,omitempty"`
	Environment *models.Environment `json:"enviroment,omitempty"`
	Dev         *string             `json:"dev,omitempty"`
	Jira        *string             `json:"jira,omitempty"`
	JiraState   *models.JiraState   `json:"jira_state,omitempty"`
	Sprint      *string             `json:"sprint,omitempty"`
	App         *models.App         `json:"app,omitempty"`
}

// PatchFromTask builds an update body that carries every editable field of
// task. Empty optional values are sent as "" and clear the stored value.
func PatchFromTask(task models.Task) TaskPatch {
	return TaskPatch{
		Ticket:      &task.Ticket,
		Type:        &task.Type,
		Description: &task.Description,
		Done:        &task.Done,
		Environment: &task.Environment,
		Dev:         &task.Dev,
		Jira:        &task.Jira,
		JiraState:   &task.JiraState,
		Sprint:      &task.Sprint,
		App:         &task.App,
	}
}

// HealthResponse is returned by GET /health on the local store.
type HealthResponse struct {
	Status string `json:"status"`
}

// InfoResponse describes the local store.
type InfoResponse struct {
	DBPath        string         `json:"db_path" yaml:"db_path"`
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	TotalTasks    int            `json:"total_tasks" yaml:"total_tasks"`
	DoneTasks     int            `json:"done_tasks" yaml:"done_tasks"`
	TasksByDev    map[string]int `json:"tasks_by_dev" yaml:"tasks_by_dev"`
}
