// Package board holds the client-side state behind every CHANGOS front end:
// the cached task list, its sorted and filtered projection, the task form,
// the login session and the notification sink.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"changos/internal/auth"
	"changos/internal/branch"
	"changos/internal/models"
)

// Options configures a Board.
type Options struct {
	// Developers is the full developer list. It seeds the default filter and
	// constrains the form's dev field.
	Developers   []string
	DefaultDev   string
	Profiles     []auth.Profile
	RequireOwner bool
	Notifier     Notifier
	Clipboard    branch.Clipboard
	Logger       *slog.Logger
}

// Board wires the task client to the cache, form, session and view options.
// Methods are safe for concurrent use. No lock is held across a client call.
type Board struct {
	client       TaskClient
	cache        *ListCache
	session      *Session
	notifier     Notifier
	clipboard    branch.Clipboard
	logger       *slog.Logger
	developers   []string
	requireOwner bool

	mu      sync.Mutex
	form    *Form
	sortKey SortKey
	devs    DevSet
}

// New returns a board with an empty, stale cache and the default view:
// sorted by ticket, every developer shown, nobody logged in.
func New(client TaskClient, opts Options) *Board {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		client:       client,
		cache:        NewListCache(client),
		session:      NewSession(opts.Profiles),
		notifier:     notifier,
		clipboard:    opts.Clipboard,
		logger:       logger,
		developers:   append([]string(nil), opts.Developers...),
		requireOwner: opts.RequireOwner,
		form:         NewForm(opts.DefaultDev, opts.Developers),
		sortKey:      DefaultSort,
		devs:         NewDevSet(opts.Developers...),
	}
}

func (b *Board) Cache() *ListCache { return b.cache }
func (b *Board) Session() *Session { return b.session }

func (b *Board) Developers() []string {
	return append([]string(nil), b.developers...)
}

// Load returns the projected rows, fetching the list when the cache is stale.
func (b *Board) Load(ctx context.Context) ([]models.Task, error) {
	if _, err := b.cache.Tasks(ctx); err != nil {
		return nil, b.fail(fmt.Errorf("load tasks: %w", err))
	}
	return b.Rows(), nil
}

// Refresh always re-fetches the list and returns the projected rows.
func (b *Board) Refresh(ctx context.Context) ([]models.Task, error) {
	if _, err := b.cache.Refresh(ctx); err != nil {
		return nil, b.fail(fmt.Errorf("refresh tasks: %w", err))
	}
	return b.Rows(), nil
}

// Rows projects the cached snapshot through the current filter and sort.
func (b *Board) Rows() []models.Task {
	tasks, _ := b.cache.Snapshot()
	b.mu.Lock()
	devs, key := b.devs.clone(), b.sortKey
	b.mu.Unlock()
	return Project(tasks, devs, key)
}

func (b *Board) SetSort(key SortKey) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortKey = key
}

func (b *Board) Sort() SortKey {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortKey
}

// SetDevs replaces the developer filter.
func (b *Board) SetDevs(devs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devs = NewDevSet(devs...)
}

// ToggleDev adds or removes one developer from the filter.
func (b *Board) ToggleDev(dev string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.devs.Has(dev) {
		delete(b.devs, dev)
		return
	}
	b.devs[dev] = struct{}{}
}

func (b *Board) Devs() DevSet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.devs.clone()
}

// OpenForCreate starts a new draft.
func (b *Board) OpenForCreate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form.OpenForCreate()
}

// OpenForEdit loads the cached record with the given id into the form.
func (b *Board) OpenForEdit(id string) error {
	task, ok := b.cache.Find(id)
	if !ok {
		return b.fail(fmt.Errorf("task %s not found", id))
	}
	if err := b.authorize(task.Dev); err != nil {
		return b.fail(err)
	}
	b.mu.Lock()
	err := b.form.OpenForEdit(task)
	b.mu.Unlock()
	if err != nil {
		return b.fail(err)
	}
	return nil
}

// SetField updates one field of the open draft.
func (b *Board) SetField(name, value string) error {
	b.mu.Lock()
	var err error
	if b.form.Mode() == ModeClosed {
		err = errors.New("form is not open")
	} else {
		err = b.form.SetField(name, value)
	}
	b.mu.Unlock()
	if err != nil {
		return b.fail(err)
	}
	return nil
}

// Form returns the draft, form mode and edited id.
func (b *Board) Form() (models.Task, Mode, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.form.Draft(), b.form.Mode(), b.form.EditedID()
}

// FieldValue returns the draft's value for one field as text.
func (b *Board) FieldValue(name string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.form.Value(name)
}

// Confirm submits the draft. On success the form closes and the list is
// re-fetched once; on failure the draft is kept.
func (b *Board) Confirm(ctx context.Context) (models.Task, error) {
	b.mu.Lock()
	draft, mode, id := b.form.Draft(), b.form.Mode(), b.form.EditedID()
	b.mu.Unlock()

	var (
		saved models.Task
		err   error
		msg   string
	)
	switch mode {
	case ModeCreate:
		saved, err = b.client.CreateTask(ctx, draft)
		msg = msgCreated
	case ModeEdit:
		saved, err = b.client.UpdateTask(ctx, id, draft)
		msg = msgUpdated
	default:
		return models.Task{}, b.fail(errors.New("form is not open"))
	}
	if err != nil {
		return models.Task{}, b.fail(fmt.Errorf("%s task: %w", mode, err))
	}
	b.logger.Debug("task saved", "mode", mode.String(), "id", saved.ID)

	b.mu.Lock()
	b.form.reset()
	b.mu.Unlock()

	b.notifier.Notify(Notification{Level: LevelSuccess, Message: msg})
	return saved, b.invalidateAndRefresh(ctx)
}

// Cancel discards the draft.
func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form.Cancel()
}

// Delete removes a record. When ownership is enforced the record must be in
// the cache so its dev can be checked.
func (b *Board) Delete(ctx context.Context, id string) (models.Task, error) {
	task, found := b.cache.Find(id)
	if b.requireOwner {
		if !found {
			return models.Task{}, b.fail(fmt.Errorf("task %s not found", id))
		}
		if err := b.authorize(task.Dev); err != nil {
			return models.Task{}, b.fail(err)
		}
	}

	deleted, err := b.client.DeleteTask(ctx, id)
	if err != nil {
		return models.Task{}, b.fail(fmt.Errorf("delete task: %w", err))
	}
	b.logger.Debug("task deleted", "id", id)
	b.notifier.Notify(Notification{Level: LevelSuccess, Message: msgDeleted})
	return deleted, b.invalidateAndRefresh(ctx)
}

// Login switches the session to the matching profile.
func (b *Board) Login(username, password string) (auth.Profile, error) {
	profile, err := b.session.Login(username, password)
	if err != nil {
		return auth.Profile{}, b.fail(err)
	}
	b.notifier.Notify(Notification{Level: LevelInfo, Message: "Logged in as " + profile.Username})
	return profile, nil
}

func (b *Board) Logout() {
	b.session.Logout()
	b.notifier.Notify(Notification{Level: LevelInfo, Message: "Logged out"})
}

// CopyBranch puts the branch name of a cached record on the clipboard.
func (b *Board) CopyBranch(id string) (string, error) {
	task, ok := b.cache.Find(id)
	if !ok {
		return "", b.fail(fmt.Errorf("task %s not found", id))
	}
	name := branch.ForTask(task)
	if err := branch.Copy(b.clipboard, name); err != nil {
		return name, b.fail(fmt.Errorf("copy branch name: %w", err))
	}
	b.notifier.Notify(Notification{Level: LevelSuccess, Message: msgCopied})
	return name, nil
}

func (b *Board) authorize(dev string) error {
	if !b.requireOwner {
		return nil
	}
	return b.session.CanModify(dev)
}

func (b *Board) invalidateAndRefresh(ctx context.Context) error {
	b.cache.Invalidate()
	if _, err := b.cache.Refresh(ctx); err != nil {
		return b.fail(fmt.Errorf("refresh tasks: %w", err))
	}
	return nil
}

func (b *Board) fail(err error) error {
	b.logger.Debug("board operation failed", "error", err)
	b.notifier.Notify(Notification{Level: LevelError, Message: err.Error()})
	return err
}
