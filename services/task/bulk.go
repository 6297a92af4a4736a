package task

import (
	"context"

	"go.uber.org/zap"

	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/errutil"
)

// BulkSetStatus applies one transition to every selected id under a single
// capability check. Ids already in the target state, ids whose current state
// cannot reach the target, and ids no longer in the collection are skipped,
// never errors: selections go stale between render and click. Ids whose
// transition demands a different capability than the batch was authorized
// under are skipped too, so reopening a completed task stays a single-item
// SetStatus call gated on complete:task. The whole batch persists as one
// write.
func (s *Store) BulkSetStatus(ctx context.Context, actor string, ids []string, to Status) (*BulkResult, error) {
	if !to.Valid() {
		return nil, errutil.ValidationFailed("invalid status", nil,
			errutil.WithDetails(errutil.Detail{Field: "status", Message: string(to)}))
	}
	batchCap := bulkCapability(to)
	if !s.oracle.Allow(actor, batchCap) {
		return nil, errutil.Forbidden(string(batchCap)+" denied", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.tasks)
	res := &BulkResult{Applied: []string{}, Skipped: []string{}}

	for _, id := range ids {
		idx := indexOf(next, id)
		if idx < 0 {
			res.Skipped = append(res.Skipped, id)
			continue
		}
		from := next[idx].Status
		if from == to || !allowedTransition(from, to) || transitionCapability(from, to) != batchCap {
			res.Skipped = append(res.Skipped, id)
			continue
		}

		_, successor := s.applyTransition(next, idx, to, actor)
		if successor != nil {
			next = append(next, successor)
		}
		res.Applied = append(res.Applied, id)
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	zap.L().Info("bulk status change", append(logFields(ctx),
		zap.String("to", string(to)),
		zap.Int("applied", len(res.Applied)),
		zap.Int("skipped", len(res.Skipped)),
		zap.String("actor", actor),
	)...)
	return res, nil
}

// BulkDelete removes every selected id still present; stale ids are skipped.
func (s *Store) BulkDelete(ctx context.Context, actor string, ids []string) (*BulkResult, error) {
	if !s.oracle.Allow(actor, authz.CapDeleteTask) {
		return nil, errutil.Forbidden("delete:task denied", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	next := make([]*Task, 0, len(s.tasks))
	present := make(map[string]struct{}, len(ids))
	for _, t := range s.tasks {
		if _, ok := selected[t.ID]; ok {
			present[t.ID] = struct{}{}
			continue
		}
		next = append(next, t)
	}

	res := &BulkResult{Applied: []string{}, Skipped: []string{}}
	for _, id := range ids {
		if _, ok := present[id]; ok {
			res.Applied = append(res.Applied, id)
		} else {
			res.Skipped = append(res.Skipped, id)
		}
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	zap.L().Info("bulk delete", append(logFields(ctx),
		zap.Int("applied", len(res.Applied)),
		zap.Int("skipped", len(res.Skipped)),
		zap.String("actor", actor),
	)...)
	return res, nil
}
