package recommendation

import (
	"idops-controlplane/services/task"
)

// Recommendation is an ephemeral, rule-derived suggestion. The id is a stable
// slug of the rule that produced it, never random, so the same environment
// condition yields the same id on every recomputation. Recommendations are
// not persisted; accepting one creates a Task and removes it from the current
// in-memory list only.
type Recommendation struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    task.Priority `json:"priority"`
	Category    task.Category `json:"category"`
	Action      string        `json:"action"`
}

// Input converts the recommendation into the store's neutral accept shape.
func (r Recommendation) Input() task.RecommendationInput {
	return task.RecommendationInput{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Category:    r.Category,
	}
}
