package task

import "time"

// successor builds the follow-up task spawned when a recurring task
// completes. It is a system-internal consequence of an already-authorized
// completion, so no capability check happens here.
//
// The new task copies title, description, notes, category, priority, assignee
// and schedule from the source, starts pending, and points back at the
// completed task through ParentTaskID. The predecessor is never mutated to
// point forward.
func (s *Store) successor(src *Task, completedAt time.Time) *Task {
	due := completedAt.AddDate(0, 0, src.Schedule.IntervalDays())

	return &Task{
		ID:           s.nextID(),
		Title:        src.Title,
		Description:  src.Description,
		Notes:        src.Notes,
		Category:     src.Category,
		Priority:     src.Priority,
		Status:       StatusPending,
		DueDate:      &due,
		Assignee:     src.Assignee,
		Schedule:     src.Schedule,
		Source:       SourceScheduled,
		CreatedAt:    s.now(),
		CreatedBy:    src.CompletedBy,
		ParentTaskID: src.ID,
	}
}
