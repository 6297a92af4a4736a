package task

import (
	"time"
)

// Status is the lifecycle state of a task. Exactly one holds at any time and
// transitions only happen through the store.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// rank orders statuses pending < in-progress < completed for sorting.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// Priority is totally ordered critical < high < medium < low.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// DefaultDueIn is the due-date offset applied when a task is created from a
// recommendation of this priority.
func (p Priority) DefaultDueIn() time.Duration {
	switch p {
	case PriorityCritical:
		return 24 * time.Hour
	case PriorityHigh:
		return 3 * 24 * time.Hour
	case PriorityMedium:
		return 7 * 24 * time.Hour
	default:
		return 14 * 24 * time.Hour
	}
}

type Category string

const (
	CategorySecurity   Category = "security"
	CategoryCompliance Category = "compliance"
	CategoryLicenses   Category = "licenses"
	CategoryUsers      Category = "users"
	CategoryAccess     Category = "access"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySecurity, CategoryCompliance, CategoryLicenses, CategoryUsers, CategoryAccess:
		return true
	default:
		return false
	}
}

// Schedule controls recurrence. Intervals are a fixed-day approximation
// (monthly is +30 days, not calendar-month arithmetic); changing this would
// change observable due dates, so it stays as-is.
type Schedule string

const (
	ScheduleNone      Schedule = "none"
	ScheduleDaily     Schedule = "daily"
	ScheduleWeekly    Schedule = "weekly"
	ScheduleMonthly   Schedule = "monthly"
	ScheduleQuarterly Schedule = "quarterly"
)

func (s Schedule) Valid() bool {
	switch s {
	case ScheduleNone, ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleQuarterly:
		return true
	default:
		return false
	}
}

// IntervalDays returns the recurrence interval, or 0 for ScheduleNone.
func (s Schedule) IntervalDays() int {
	switch s {
	case ScheduleDaily:
		return 1
	case ScheduleWeekly:
		return 7
	case ScheduleMonthly:
		return 30
	case ScheduleQuarterly:
		return 90
	default:
		return 0
	}
}

// Source records provenance. It never affects behaviour, only audit.
type Source string

const (
	SourceManual         Source = "manual"
	SourceRecommendation Source = "recommendation"
	SourcePlaybook       Source = "playbook"
	SourceScheduled      Source = "scheduled"
)

func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceRecommendation, SourcePlaybook, SourceScheduled:
		return true
	default:
		return false
	}
}

// Task is the unit of trackable remediation work.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Notes        string     `json:"notes,omitempty"`
	Category     Category   `json:"category"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Assignee     string     `json:"assignee,omitempty"`
	Schedule     Schedule   `json:"schedule"`
	Source       Source     `json:"source"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CompletedBy  string     `json:"completedBy,omitempty"`
	ParentTaskID string     `json:"parentTaskId,omitempty"`
	PlaybookID   string     `json:"playbookId,omitempty"`
}

// Overdue reports whether the task's due date has passed and the task is not
// completed.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// document is the persisted shape of the collection under the kvstore key.
type document struct {
	Tasks []*Task `json:"tasks"`
}

// CreateInput is the boundary type for task creation. Invalid enum values are
// rejected here rather than tolerated downstream.
type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Notes       string     `json:"notes"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Assignee    string     `json:"assignee"`
	Schedule    Schedule   `json:"schedule"`
	Source      Source     `json:"source"`
	PlaybookID  string     `json:"playbookId"`
}

// Patch carries partial edits; nil fields are left untouched. Status is
// deliberately absent, state only moves through SetStatus. A nil DueDate
// means "keep"; unsetting an existing due date goes through ClearDueDate,
// which wins over any DueDate in the same patch.
type Patch struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Notes        *string    `json:"notes"`
	Category     *Category  `json:"category"`
	Priority     *Priority  `json:"priority"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	Assignee     *string    `json:"assignee"`
	Schedule     *Schedule  `json:"schedule"`
	PlaybookID   *string    `json:"playbookId"`
}

// BulkResult reports which selected ids a bulk operation touched. Skipped ids
// were either already in the target state, not transitionable, or stale.
type BulkResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}
