package recommendation

import (
	"sort"

	"go.uber.org/fx"

	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

var Module = fx.Module("recommendation.engine",
	fx.Provide(NewEngine),
)

// Engine derives prioritized recommendations from an environment snapshot.
// It is stateless: same snapshot in, same ids, order and content out.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs the fixed rule set and returns the results ordered critical
// first. Ties within a priority keep rule order. When nothing fires the
// baseline set is returned so the caller always has something to show.
func (e *Engine) Evaluate(s snapshot.Snapshot) []Recommendation {
	out := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		if rec, ok := r(s); ok {
			out = append(out, rec)
		}
	}

	if len(out) == 0 {
		out = append(out, baseline...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
	})
	return out
}

// Find returns the recommendation with the given id for the snapshot, if the
// underlying condition currently holds.
func (e *Engine) Find(s snapshot.Snapshot, id string) (Recommendation, bool) {
	for _, rec := range e.Evaluate(s) {
		if rec.ID == id {
			return rec, true
		}
	}
	return Recommendation{}, false
}

func priorityRank(p task.Priority) int {
	switch p {
	case task.PriorityCritical:
		return 0
	case task.PriorityHigh:
		return 1
	case task.PriorityMedium:
		return 2
	default:
		return 3
	}
}
