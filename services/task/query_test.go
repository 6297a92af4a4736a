package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestOverduePinnedRegardlessOfSort(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "a", Title: "alpha", Status: StatusPending, Priority: PriorityLow, DueDate: date(2024, 1, 1)},
		{ID: "b", Title: "beta", Status: StatusPending, Priority: PriorityLow, DueDate: date(2024, 1, 1)},
		{ID: "z", Title: "zulu", Status: StatusPending, Priority: PriorityCritical, DueDate: date(2099, 1, 1)},
	}

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		got := Apply(tasks, Filters{}, SortByTitle, order, now)
		require.Len(t, got, 3)
		// both overdue tasks precede the future one in either direction
		require.Equal(t, "zulu", got[2].Title)
	}

	// within the overdue partition the requested sort still applies
	got := Apply(tasks, Filters{}, SortByTitle, SortDesc, now)
	require.Equal(t, []string{"beta", "alpha", "zulu"}, titles(got))
}

func TestCompletedTasksAreNeverOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "a", Title: "done", Status: StatusCompleted, Priority: PriorityLow, DueDate: date(2024, 1, 1)},
		{ID: "b", Title: "open", Status: StatusPending, Priority: PriorityLow, DueDate: date(2024, 1, 1)},
	}

	got := Apply(tasks, Filters{Status: StatusOverdue}, SortByCreated, SortAsc, now)
	require.Equal(t, []string{"open"}, titles(got))
}

func TestSortByPriorityCriticalFirst(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "low", Priority: PriorityLow, Status: StatusPending},
		{ID: "2", Title: "critical", Priority: PriorityCritical, Status: StatusPending},
		{ID: "3", Title: "medium", Priority: PriorityMedium, Status: StatusPending},
		{ID: "4", Title: "high", Priority: PriorityHigh, Status: StatusPending},
	}

	got := Apply(tasks, Filters{}, SortByPriority, SortAsc, now)
	require.Equal(t, []string{"critical", "high", "medium", "low"}, titles(got))

	got = Apply(tasks, Filters{}, SortByPriority, SortDesc, now)
	require.Equal(t, []string{"low", "medium", "high", "critical"}, titles(got))
}

func TestSortTiesKeepInsertionOrder(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "first", Priority: PriorityHigh, Status: StatusPending},
		{ID: "2", Title: "second", Priority: PriorityHigh, Status: StatusPending},
		{ID: "3", Title: "third", Priority: PriorityHigh, Status: StatusPending},
	}

	for i := 0; i < 5; i++ {
		got := Apply(tasks, Filters{}, SortByPriority, SortAsc, now)
		require.Equal(t, []string{"first", "second", "third"}, titles(got))
	}
}

func TestSortByDueDateNilLast(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) // all due dates in the past would pin; keep them future
	tasks := []Task{
		{ID: "1", Title: "none", Priority: PriorityLow, Status: StatusPending},
		{ID: "2", Title: "later", Priority: PriorityLow, Status: StatusPending, DueDate: date(2031, 2, 1)},
		{ID: "3", Title: "sooner", Priority: PriorityLow, Status: StatusPending, DueDate: date(2031, 1, 1)},
	}

	got := Apply(tasks, Filters{}, SortByDueDate, SortAsc, now)
	require.Equal(t, []string{"sooner", "later", "none"}, titles(got))

	got = Apply(tasks, Filters{}, SortByDueDate, SortDesc, now)
	require.Equal(t, []string{"later", "sooner", "none"}, titles(got))
}

func TestSortByStatus(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "done", Status: StatusCompleted},
		{ID: "2", Title: "open", Status: StatusPending},
		{ID: "3", Title: "running", Status: StatusInProgress},
	}

	got := Apply(tasks, Filters{}, SortByStatus, SortAsc, now)
	require.Equal(t, []string{"open", "running", "done"}, titles(got))
}

func TestFilterByStatusPriorityCategory(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "a", Status: StatusPending, Priority: PriorityHigh, Category: CategorySecurity},
		{ID: "2", Title: "b", Status: StatusCompleted, Priority: PriorityHigh, Category: CategoryLicenses},
		{ID: "3", Title: "c", Status: StatusPending, Priority: PriorityLow, Category: CategorySecurity},
	}

	got := Apply(tasks, Filters{Status: "pending"}, SortByCreated, SortAsc, now)
	require.Equal(t, []string{"a", "c"}, titles(got))

	got = Apply(tasks, Filters{Priority: "high"}, SortByCreated, SortAsc, now)
	require.Equal(t, []string{"a", "b"}, titles(got))

	got = Apply(tasks, Filters{Category: "licenses"}, SortByCreated, SortAsc, now)
	require.Equal(t, []string{"b"}, titles(got))

	got = Apply(tasks, Filters{Status: "all", Priority: "all", Category: "all"}, SortByCreated, SortAsc, now)
	require.Len(t, got, 3)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "Review MFA rollout", Status: StatusPending},
		{ID: "2", Title: "Licenses", Description: "unused MFA tokens", Status: StatusPending},
		{ID: "3", Title: "Guests", Assignee: "mfa-team", Status: StatusPending},
		{ID: "4", Title: "Unrelated", Status: StatusPending},
	}

	got := Apply(tasks, Filters{Search: "mfa"}, SortByCreated, SortAsc, now)
	require.Len(t, got, 3)

	got = Apply(tasks, Filters{Search: "MFA"}, SortByCreated, SortAsc, now)
	require.Len(t, got, 3)

	got = Apply(tasks, Filters{Search: "nothing"}, SortByCreated, SortAsc, now)
	require.Empty(t, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "1", Title: "b", Priority: PriorityLow, Status: StatusPending},
		{ID: "2", Title: "a", Priority: PriorityCritical, Status: StatusPending},
	}

	_ = Apply(tasks, Filters{}, SortByPriority, SortAsc, now)
	require.Equal(t, "b", tasks[0].Title)
	require.Equal(t, "a", tasks[1].Title)
}
