package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"changos/internal/auth"
	"changos/internal/models"
)

// Tests for the client-side state (this package and tui) use testify's
// require and assert. Server, store and CLI tests use plain testing.

type call struct {
	op   string
	id   string
	task models.Task
}

type fakeClient struct {
	mu        sync.Mutex
	tasks     []models.Task
	calls     []call
	nextID    int
	createErr error
	listErr   error
}

func (f *fakeClient) record(c call) {
	f.calls = append(f.calls, c)
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeClient) last(op string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return f.calls[i], true
		}
	}
	return call{}, false
}

func (f *fakeClient) ListTasks(context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{op: "list"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Task(nil), f.tasks...), nil
}

func (f *fakeClient) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{op: "create", task: task})
	if f.createErr != nil {
		return models.Task{}, f.createErr
	}
	f.nextID++
	task.ID = "new" + string(rune('0'+f.nextID))
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeClient) UpdateTask(_ context.Context, id string, task models.Task) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{op: "update", id: id, task: task})
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			task.ID = id
			f.tasks[i] = task
			return task, nil
		}
	}
	return models.Task{}, errors.New("not found")
}

func (f *fakeClient) DeleteTask(_ context.Context, id string) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(call{op: "delete", id: id})
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return t, nil
		}
	}
	return models.Task{}, errors.New("not found")
}

var testDevs = []string{"jean", "arol", "agu"}

func testProfiles() []auth.Profile {
	return []auth.Profile{
		{Username: "jean", Password: "jean-pass"},
		{Username: "arol", Password: "arol-pass"},
		{Username: "agu"},
	}
}

func newTestBoard(t *testing.T, client *fakeClient) (*Board, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	b := New(client, Options{
		Developers:   testDevs,
		DefaultDev:   "jean",
		Profiles:     testProfiles(),
		RequireOwner: true,
		Notifier:     rec,
	})
	return b, rec
}

func seedTasks() []models.Task {
	return []models.Task{
		{ID: "abc123", Ticket: "T-2", Type: models.TypeBug, Dev: "jean", Environment: models.EnvDevelop, Description: "fix login"},
		{ID: "def456", Ticket: "T-1", Type: models.TypeFeature, Dev: "arol", Environment: models.EnvTest},
		{ID: "ghi789", Ticket: "T-3", Type: models.TypeHotfix, Dev: "agu", Environment: models.EnvProduction, Done: true},
	}
}

func TestLoadUsesCacheUntilInvalidated(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, _ := newTestBoard(t, client)
	ctx := context.Background()

	rows, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "T-1", rows[0].Ticket, "default sort is by ticket")

	_, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, client.count("list"))

	b.Cache().Invalidate()
	_, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, client.count("list"))
}

func TestLoadFailureNotifies(t *testing.T) {
	client := &fakeClient{listErr: errors.New("boom")}
	b, rec := newTestBoard(t, client)

	_, err := b.Load(context.Background())
	require.Error(t, err)

	notes := rec.All()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "boom")
	assert.True(t, b.Cache().Stale())
}

func TestCreateFlow(t *testing.T) {
	client := &fakeClient{}
	b, rec := newTestBoard(t, client)
	ctx := context.Background()

	b.OpenForCreate()
	require.NoError(t, b.SetField("ticket", "T-9"))
	require.NoError(t, b.SetField("description", "new thing"))
	require.NoError(t, b.SetField("enviroment", "stage"))

	created, err := b.Confirm(ctx)
	require.NoError(t, err)
	assert.True(t, created.Persisted())

	assert.Equal(t, 1, client.count("create"))
	assert.Equal(t, 1, client.count("list"))

	sent, ok := client.last("create")
	require.True(t, ok)
	assert.Equal(t, "T-9", sent.task.Ticket)
	assert.Equal(t, models.EnvStage, sent.task.Environment)
	assert.Empty(t, sent.task.ID)

	draft, mode, id := b.Form()
	assert.Equal(t, ModeClosed, mode)
	assert.Empty(t, id)
	assert.Equal(t, models.DefaultTask("jean"), draft)

	require.Len(t, rec.All(), 1)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Task created successfully"}, rec.All()[0])
	assert.Len(t, b.Rows(), 1)
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	client := &fakeClient{createErr: errors.New("server down")}
	b, rec := newTestBoard(t, client)

	b.OpenForCreate()
	require.NoError(t, b.SetField("ticket", "T-5"))
	_, err := b.Confirm(context.Background())
	require.Error(t, err)

	draft, mode, _ := b.Form()
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, "T-5", draft.Ticket)
	assert.Equal(t, 0, client.count("list"))
	require.Len(t, rec.All(), 1)
	assert.Equal(t, LevelError, rec.All()[0].Level)
}

func TestUpdateSendsDraftValues(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, rec := newTestBoard(t, client)
	ctx := context.Background()

	_, err := b.Load(ctx)
	require.NoError(t, err)
	_, err = b.Login("jean", "jean-pass")
	require.NoError(t, err)

	require.NoError(t, b.OpenForEdit("abc123"))
	require.NoError(t, b.SetField("sprint", "S-14"))
	require.NoError(t, b.SetField("done", "true"))
	require.NoError(t, b.SetField("jira_state", "code review"))

	_, err = b.Confirm(ctx)
	require.NoError(t, err)

	sent, ok := client.last("update")
	require.True(t, ok)
	assert.Equal(t, "abc123", sent.id)
	assert.Equal(t, "S-14", sent.task.Sprint)
	assert.True(t, sent.task.Done)
	assert.Equal(t, models.JiraCodeReview, sent.task.JiraState)
	assert.Equal(t, "T-2", sent.task.Ticket)
	assert.Equal(t, "fix login", sent.task.Description)
	assert.Empty(t, sent.task.ID)

	assert.Equal(t, 2, client.count("list"))
	last := rec.All()[len(rec.All())-1]
	assert.Equal(t, "Task updated successfully", last.Message)
}

func TestEditRefusedForOtherDeveloper(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, rec := newTestBoard(t, client)
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	err = b.OpenForEdit("abc123")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = b.Login("arol", "arol-pass")
	require.NoError(t, err)
	err = b.OpenForEdit("abc123")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, mode, _ := b.Form()
	assert.Equal(t, ModeClosed, mode)
	assert.Equal(t, LevelError, rec.All()[len(rec.All())-1].Level)
}

func TestUnauthorizedDeleteMakesNoCall(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, rec := newTestBoard(t, client)
	ctx := context.Background()
	_, err := b.Load(ctx)
	require.NoError(t, err)

	_, err = b.Login("arol", "arol-pass")
	require.NoError(t, err)
	before := len(rec.All())

	_, err = b.Delete(ctx, "abc123")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 0, client.count("delete"))
	assert.Equal(t, 1, client.count("list"))

	notes := rec.All()[before:]
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Len(t, b.Rows(), 3)
}

func TestOwnerDelete(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, rec := newTestBoard(t, client)
	ctx := context.Background()
	_, err := b.Load(ctx)
	require.NoError(t, err)
	_, err = b.Login("JEAN", "jean-pass")
	require.NoError(t, err)

	deleted, err := b.Delete(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", deleted.ID)
	assert.Equal(t, 1, client.count("delete"))
	assert.Equal(t, 2, client.count("list"))
	assert.Len(t, b.Rows(), 2)
	assert.Equal(t, "Task deleted successfully", rec.All()[len(rec.All())-1].Message)
}

func TestDeleteWithoutOwnership(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b := New(client, Options{Developers: testDevs, RequireOwner: false})

	_, err := b.Delete(context.Background(), "ghi789")
	require.NoError(t, err)
	assert.Equal(t, 1, client.count("delete"))
}

func TestLoginMismatchLeavesSessionUnchanged(t *testing.T) {
	b, rec := newTestBoard(t, &fakeClient{})

	_, err := b.Login("jean", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, ok := b.Session().Current()
	assert.False(t, ok)

	_, err = b.Login("agu", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = b.Login("jean", "jean-pass")
	require.NoError(t, err)
	_, err = b.Login("arol", "nope")
	require.Error(t, err)
	profile, ok := b.Session().Current()
	require.True(t, ok)
	assert.Equal(t, "jean", profile.Username)

	b.Logout()
	_, ok = b.Session().Current()
	assert.False(t, ok)
	assert.NotEmpty(t, rec.All())
}

func TestFilterAndToggle(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b, _ := newTestBoard(t, client)
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	b.ToggleDev("arol")
	rows := b.Rows()
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, "arol", r.Dev)
	}

	b.ToggleDev("arol")
	assert.Len(t, b.Rows(), 3)

	b.SetDevs("agu")
	rows = b.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "ghi789", rows[0].ID)

	b.SetDevs()
	assert.Empty(t, b.Rows())
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

func TestCopyBranch(t *testing.T) {
	client := &fakeClient{tasks: []models.Task{
		{ID: "x1", Type: models.TypeBug, Ticket: "T-1", Description: "fix login bug", Dev: "jean"},
	}}
	cb := &fakeClipboard{}
	rec := &Recorder{}
	b := New(client, Options{Developers: testDevs, Notifier: rec, Clipboard: cb})
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	name, err := b.CopyBranch("x1")
	require.NoError(t, err)
	assert.Equal(t, "BG/T-1-fix-login-bug", name)
	assert.Equal(t, name, cb.text)
	assert.Equal(t, Notification{Level: LevelSuccess, Message: "Copied!"}, rec.All()[0])

	_, err = b.CopyBranch("missing")
	assert.Error(t, err)
}

func TestSetFieldRequiresOpenForm(t *testing.T) {
	b, _ := newTestBoard(t, &fakeClient{})
	assert.Error(t, b.SetField("ticket", "T-1"))

	_, err := b.Confirm(context.Background())
	assert.Error(t, err)
}

func TestCancelDiscardsDraft(t *testing.T) {
	b, _ := newTestBoard(t, &fakeClient{})
	b.OpenForCreate()
	require.NoError(t, b.SetField("ticket", "T-1"))
	b.Cancel()

	draft, mode, _ := b.Form()
	assert.Equal(t, ModeClosed, mode)
	assert.Empty(t, draft.Ticket)
}

func TestLatestKeepsOnlyLastNotification(t *testing.T) {
	latest := &Latest{}
	_, ok := latest.Get()
	assert.False(t, ok)

	latest.Notify(Notification{Level: LevelSuccess, Message: "one"})
	latest.Notify(Notification{Level: LevelError, Message: "two"})
	n, ok := latest.Get()
	require.True(t, ok)
	assert.Equal(t, "two", n.Message)

	latest.Dismiss()
	_, ok = latest.Get()
	assert.False(t, ok)
}

func TestOwnerMatchIgnoresCase(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	b := New(client, Options{
		Developers:   testDevs,
		Profiles:     []auth.Profile{{Username: "Jean", Password: "jean-pass"}},
		RequireOwner: true,
	})
	ctx := context.Background()
	_, err := b.Load(ctx)
	require.NoError(t, err)

	_, err = b.Login("jean", "jean-pass")
	require.NoError(t, err)
	require.NoError(t, b.OpenForEdit("abc123"))
	b.Cancel()

	_, err = b.Delete(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 1, client.count("delete"))

	assert.ErrorIs(t, b.Session().CanModify("arol"), ErrNotOwner)
}

func TestNotifierMayReadBoardState(t *testing.T) {
	client := &fakeClient{tasks: seedTasks()}
	var b *Board
	var seen []int
	b = New(client, Options{
		Developers:   testDevs,
		DefaultDev:   "jean",
		Profiles:     testProfiles(),
		RequireOwner: true,
		Notifier: NotifierFunc(func(Notification) {
			b.Form()
			seen = append(seen, len(b.Rows()))
		}),
	})
	_, err := b.Load(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.OpenForEdit("missing")
		_ = b.SetField("ticket", "T-1")
		_ = b.OpenForEdit("abc123")
		b.OpenForCreate()
		_ = b.SetField("type", "nope")
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier blocked on board state")
	}
	assert.Equal(t, []int{3, 3, 3, 3}, seen)
}
