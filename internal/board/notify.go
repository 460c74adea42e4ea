package board

import "sync"

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a user-visible outcome.
type Notification struct {
	Level   Level
	Message string
}

const (
	msgCreated = "Task created successfully"
	msgUpdated = "Task updated successfully"
	msgDeleted = "Task deleted successfully"
	msgCopied  = "Copied!"
)

// Notifier surfaces outcomes to the user. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

// Recorder keeps every notification in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Latest keeps only the most recent notification.
type Latest struct {
	mu   sync.Mutex
	item Notification
	set  bool
}

func (l *Latest) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.item = n
	l.set = true
}

// Get returns the last notification, if any.
func (l *Latest) Get() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.item, l.set
}

// Dismiss clears the current notification.
func (l *Latest) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.item = Notification{}
	l.set = false
}
