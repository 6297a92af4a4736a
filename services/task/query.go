package task

import (
	"sort"
	"strings"
	"time"
)

// Filters narrows the listed collection. Empty or "all" values match
// everything; StatusOverdue is a synthetic filter over due date and status.
type Filters struct {
	Status   string
	Priority string
	Category string
	Search   string
}

const StatusOverdue = "overdue"

type SortBy string

const (
	SortByPriority SortBy = "priority"
	SortByDueDate  SortBy = "dueDate"
	SortByCreated  SortBy = "created"
	SortByTitle    SortBy = "title"
	SortByStatus   SortBy = "status"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Apply is the pure query function over a collection snapshot: filter, sort,
// then pin overdue tasks ahead of everything else. Tasks tying on the sort
// key keep their insertion order, so identical inputs always produce
// identical output.
func Apply(tasks []Task, f Filters, sortBy SortBy, order SortOrder, now time.Time) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(&t, now) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j], sortBy, order)
	})

	// Overdue tasks are always surfaced first regardless of the requested
	// sort; relative order within each partition follows the sort above.
	pinned := make([]Task, 0, len(out))
	rest := make([]Task, 0, len(out))
	for _, t := range out {
		if t.Overdue(now) {
			pinned = append(pinned, t)
		} else {
			rest = append(rest, t)
		}
	}
	return append(pinned, rest...)
}

func (f Filters) matches(t *Task, now time.Time) bool {
	switch f.Status {
	case "", "all":
	case StatusOverdue:
		if !t.Overdue(now) {
			return false
		}
	default:
		if string(t.Status) != f.Status {
			return false
		}
	}

	if f.Priority != "" && f.Priority != "all" && string(t.Priority) != f.Priority {
		return false
	}
	if f.Category != "" && f.Category != "all" && string(t.Category) != f.Category {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Assignee), q) {
			return false
		}
	}
	return true
}

func less(a, b *Task, sortBy SortBy, order SortOrder) bool {
	if sortBy == SortByDueDate {
		// Tasks without a due date sort last in either direction.
		switch {
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		}
		c := a.DueDate.Compare(*b.DueDate)
		if c == 0 {
			return false
		}
		if order == SortDesc {
			return c > 0
		}
		return c < 0
	}

	c := compare(a, b, sortBy)
	if c == 0 {
		return false
	}
	if order == SortDesc {
		return c > 0
	}
	return c < 0
}

func compare(a, b *Task, sortBy SortBy) int {
	switch sortBy {
	case SortByCreated:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByStatus:
		return a.Status.rank() - b.Status.rank()
	default:
		return a.Priority.rank() - b.Priority.rank()
	}
}
