package board

import (
	"fmt"
	"slices"
	"strings"

	"changos/internal/models"
)

// SortKey names the column rows are ordered by.
type SortKey string

const (
	SortDone        SortKey = "done"
	SortTicket      SortKey = "ticket"
	SortType        SortKey = "type"
	SortDev         SortKey = "dev"
	SortDescription SortKey = "description"
	SortEnvironment SortKey = "environment"
	SortSprint      SortKey = "sprint"
	SortJira        SortKey = "jira"
	SortJiraState   SortKey = "jira_state"
	SortApp         SortKey = "app"
	SortID          SortKey = "id"
)

// DefaultSort orders rows by ticket.
const DefaultSort = SortTicket

var sortKeys = []SortKey{
	SortDone, SortTicket, SortType, SortDev, SortDescription, SortEnvironment,
	SortSprint, SortJira, SortJiraState, SortApp, SortID,
}

// SortKeys returns every accepted sort key.
func SortKeys() []SortKey { return append([]SortKey(nil), sortKeys...) }

// ParseSortKey validates a sort key. "enviroment" is accepted as a column alias.
func ParseSortKey(raw string) (SortKey, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultSort, nil
	}
	if value == "enviroment" {
		return SortEnvironment, nil
	}
	key := SortKey(value)
	if !slices.Contains(sortKeys, key) {
		return "", fmt.Errorf("invalid sort key: %s", raw)
	}
	return key, nil
}

// DevSet is the developer inclusion filter.
type DevSet map[string]struct{}

// NewDevSet builds a set from developer names.
func NewDevSet(devs ...string) DevSet {
	set := make(DevSet, len(devs))
	for _, dev := range devs {
		dev = strings.TrimSpace(dev)
		if dev == "" {
			continue
		}
		set[dev] = struct{}{}
	}
	return set
}

func (s DevSet) Has(dev string) bool {
	_, ok := s[dev]
	return ok
}

// Sorted returns the members in lexical order.
func (s DevSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for dev := range s {
		out = append(out, dev)
	}
	slices.Sort(out)
	return out
}

func (s DevSet) clone() DevSet {
	out := make(DevSet, len(s))
	for dev := range s {
		out[dev] = struct{}{}
	}
	return out
}

// SortTasks returns a new slice ordered ascending by key. Equal elements keep
// their input order. Empty optional values sort first.
func SortTasks(tasks []models.Task, key SortKey) []models.Task {
	out := cloneTasks(tasks)
	if out == nil {
		out = []models.Task{}
	}
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return compareTasks(a, b, key)
	})
	return out
}

func compareTasks(a, b models.Task, key SortKey) int {
	if key == SortDone {
		switch {
		case a.Done == b.Done:
			return 0
		case !a.Done:
			return -1
		default:
			return 1
		}
	}
	return compareStrings(sortValue(a, key), sortValue(b, key))
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sortValue(t models.Task, key SortKey) string {
	switch key {
	case SortTicket:
		return t.Ticket
	case SortType:
		return string(t.Type)
	case SortDev:
		return t.Dev
	case SortDescription:
		return t.Description
	case SortEnvironment:
		return string(t.Environment)
	case SortSprint:
		return t.Sprint
	case SortJira:
		return t.Jira
	case SortJiraState:
		return string(t.JiraState)
	case SortApp:
		return string(t.App)
	case SortID:
		return t.ID
	default:
		return ""
	}
}

// FilterByDevs returns the records whose dev is in devs, preserving order.
func FilterByDevs(tasks []models.Task, devs DevSet) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if devs.Has(t.Dev) {
			out = append(out, t)
		}
	}
	return out
}

// Project filters then sorts.
func Project(tasks []models.Task, devs DevSet, key SortKey) []models.Task {
	return SortTasks(FilterByDevs(tasks, devs), key)
}
