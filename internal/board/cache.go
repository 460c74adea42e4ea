package board

import (
	"context"
	"sync"

	"changos/internal/models"
)

// TaskClient is the remote task store as the board sees it.
// *api.Client satisfies it.
type TaskClient interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) (models.Task, error)
}

// ListCache holds the last fetched "all tasks" result. It starts stale and
// is refreshed from the store on demand; it is never patched locally.
type ListCache struct {
	client TaskClient

	mu      sync.Mutex
	tasks   []models.Task
	stale   bool
	fetched bool
}

// NewListCache returns an empty, stale cache.
func NewListCache(client TaskClient) *ListCache {
	return &ListCache{client: client, stale: true}
}

// Tasks returns the cached list, fetching it first when stale.
func (c *ListCache) Tasks(ctx context.Context) ([]models.Task, error) {
	c.mu.Lock()
	if !c.stale {
		out := cloneTasks(c.tasks)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh issues exactly one list call and stores its result. When
// refreshes race, whichever resolves last wins.
func (c *ListCache) Refresh(ctx context.Context) ([]models.Task, error) {
	tasks, err := c.client.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = cloneTasks(tasks)
	c.stale = false
	c.fetched = true
	return cloneTasks(c.tasks), nil
}

// Invalidate marks the cached list stale.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}

// Stale reports whether the next Tasks call will hit the store.
func (c *ListCache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Snapshot returns the cached list without fetching. ok is false until the
// first successful fetch.
func (c *ListCache) Snapshot() (tasks []models.Task, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTasks(c.tasks), c.fetched
}

// Find looks a task up by id in the snapshot.
func (c *ListCache) Find(id string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	return append(make([]models.Task, 0, len(tasks)), tasks...)
}
