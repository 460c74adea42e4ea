package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"changos/internal/models"
)

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

const taskColumns = "id, ticket, type, description, done, environment, dev, jira, jira_state, sprint, app"

// timeLayout is fixed width so stored timestamps order lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// TaskUpdate carries the fields to change. Nil fields are left alone.
type TaskUpdate struct {
	Ticket      *string
	Type        *string
	Description *string
	Done        *bool
	Environment *string
	Dev         *string
	Jira        *string
	JiraState   *string
	Sprint      *string
	App         *string
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Ticket == nil && u.Type == nil && u.Description == nil && u.Done == nil &&
		u.Environment == nil && u.Dev == nil && u.Jira == nil && u.JiraState == nil &&
		u.Sprint == nil && u.App == nil
}

// CreateTask inserts a task, assigning an id when it has none.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}
	if task.ID == "" {
		id, err := GenerateID(s.TaskExists)
		if err != nil {
			return err
		}
		task.ID = id
	}

	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, ticket, type, description, done, environment, dev, jira, jira_state, sprint, app, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.Ticket,
		string(task.Type),
		task.Description,
		task.Done,
		string(task.Environment),
		task.Dev,
		task.Jira,
		nullIfEmpty(string(task.JiraState)),
		task.Sprint,
		nullIfEmpty(string(task.App)),
		now,
		now,
	)
	return err
}

// GetTask returns a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask applies the non-nil fields of update and returns the stored record.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	set := []string{}
	args := []any{}
	addString := func(column string, value *string, nullable bool) {
		if value == nil {
			return
		}
		set = append(set, column+" = ?")
		if nullable {
			args = append(args, nullIfEmpty(*value))
			return
		}
		args = append(args, *value)
	}

	addString("ticket", update.Ticket, false)
	addString("type", update.Type, false)
	addString("description", update.Description, false)
	if update.Done != nil {
		set = append(set, "done = ?")
		args = append(args, *update.Done)
	}
	addString("environment", update.Environment, false)
	addString("dev", update.Dev, false)
	addString("jira", update.Jira, false)
	addString("jira_state", update.JiraState, true)
	addString("sprint", update.Sprint, false)
	addString("app", update.App, true)

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(s.now()))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTaskNotFound
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task and returns the record as it was.
func (s *Store) DeleteTask(ctx context.Context, id string) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var task *models.Task
	task, err = scanTask(tx.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrTaskNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return task, nil
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var (
		task      models.Task
		taskType  string
		env       string
		jiraState sql.NullString
		app       sql.NullString
	)
	if err := scanner.Scan(
		&task.ID,
		&task.Ticket,
		&taskType,
		&task.Description,
		&task.Done,
		&env,
		&task.Dev,
		&task.Jira,
		&jiraState,
		&task.Sprint,
		&app,
	); err != nil {
		return nil, err
	}
	task.Type = models.TaskType(taskType)
	task.Environment = models.Environment(env)
	task.JiraState = models.JiraState(jiraState.String)
	task.App = models.App(app.String)
	return &task, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
