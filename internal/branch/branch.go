// Package branch builds git branch names for board tickets.
package branch

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"changos/internal/models"
)

// Name returns "<type>/<ticket>-<slug>", where slug is the description with
// spaces turned into hyphens and commas removed.
func Name(taskType models.TaskType, ticket, description string) string {
	return fmt.Sprintf("%s/%s-%s", taskType, ticket, slug(description))
}

// ForTask returns the branch name for a task.
func ForTask(task models.Task) string {
	return Name(task.Type, task.Ticket, task.Description)
}

// CheckoutCommand returns the git command that creates the branch.
func CheckoutCommand(name string) string {
	return "git checkout -b " + name
}

func slug(description string) string {
	return strings.ReplaceAll(strings.ReplaceAll(description, " ", "-"), ",", "")
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// Copy places text on the clipboard. A nil clipboard means the system one.
func Copy(cb Clipboard, text string) error {
	if cb == nil {
		cb = SystemClipboard{}
	}
	return cb.WriteAll(text)
}
