package task

import (
	"time"

	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/errutil"
)

// Record is one task flattened for tabular export. The exporting collaborator
// decides the final format (CSV, XLSX); this stays plain strings.
type Record struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Status       string `json:"status"`
	DueDate      string `json:"dueDate"`
	Assignee     string `json:"assignee"`
	Schedule     string `json:"schedule"`
	Source       string `json:"source"`
	CreatedAt    string `json:"createdAt"`
	CreatedBy    string `json:"createdBy"`
	CompletedAt  string `json:"completedAt"`
	CompletedBy  string `json:"completedBy"`
	ParentTaskID string `json:"parentTaskId"`
}

// Export flattens the whole collection in insertion order. Read-only, but
// gated on export:data since exports leave the console.
func (s *Store) Export(actor string) ([]Record, error) {
	if !s.oracle.Allow(actor, authz.CapExportData) {
		return nil, errutil.Forbidden("export:data denied", nil)
	}

	tasks := s.snapshot()
	out := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Record{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Category:     string(t.Category),
			Priority:     string(t.Priority),
			Status:       string(t.Status),
			DueDate:      formatDate(t.DueDate),
			Assignee:     t.Assignee,
			Schedule:     string(t.Schedule),
			Source:       string(t.Source),
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
			CreatedBy:    t.CreatedBy,
			CompletedAt:  formatDate(t.CompletedAt),
			CompletedBy:  t.CompletedBy,
			ParentTaskID: t.ParentTaskID,
		})
	}
	return out, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
