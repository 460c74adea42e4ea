package store

import (
	"context"

	"changos/internal/models"
)

// TaskStore abstracts task storage backends.
type TaskStore interface {
	TaskExists(id string) (bool, error)
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) (*models.Task, error)
}

var _ TaskStore = (*Store)(nil)
