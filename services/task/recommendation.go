package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/errutil"
)

// RecommendationInput is the neutral shape of an accepted recommendation.
// The recommendation engine maps its output into this before handing it to
// the store, so the store never depends on the engine.
type RecommendationInput struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Category    Category
}

// AcceptRecommendation converts a recommendation into a committed task. The
// due date defaults from the priority (critical +1d ... low +14d) and the
// recommendation id is marked dismissed for this session so it drops out of
// the current list; it may legitimately reappear next session if the
// underlying condition still holds.
func (s *Store) AcceptRecommendation(ctx context.Context, actor string, in RecommendationInput) (*Task, error) {
	if !s.oracle.Allow(actor, authz.CapAcceptRecommendation) {
		return nil, errutil.Forbidden("accept:recommendation denied", nil)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errutil.ValidationFailed("title is required", nil,
			errutil.WithDetails(errutil.Detail{Field: "title", Message: "required"}))
	}
	if !in.Category.Valid() {
		return nil, errutil.ValidationFailed("invalid category", nil,
			errutil.WithDetails(errutil.Detail{Field: "category", Message: string(in.Category)}))
	}
	if !in.Priority.Valid() {
		return nil, errutil.ValidationFailed("invalid priority", nil,
			errutil.WithDetails(errutil.Detail{Field: "priority", Message: string(in.Priority)}))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	due := s.now().Add(in.Priority.DefaultDueIn())
	t := &Task{
		ID:          s.nextID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      StatusPending,
		DueDate:     &due,
		Schedule:    ScheduleNone,
		Source:      SourceRecommendation,
		CreatedAt:   s.now(),
		CreatedBy:   actor,
	}

	next := append(clone(s.tasks), t)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	s.dismissed[in.ID] = struct{}{}

	zap.L().Info("recommendation accepted", append(logFields(ctx),
		zap.String("recommendation_id", in.ID),
		zap.String("task_id", t.ID),
		zap.String("actor", actor),
	)...)

	out := *t
	return &out, nil
}

// DismissRecommendation hides a recommendation for the rest of the session.
// Nothing persists: recommendations track the current environment, not
// committed work, so a dismissed one returns next session if still relevant.
func (s *Store) DismissRecommendation(actor, id string) error {
	if !s.oracle.Allow(actor, authz.CapDismissRecommendation) {
		return errutil.Forbidden("dismiss:recommendation denied", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed[id] = struct{}{}
	return nil
}

// Dismissed reports whether a recommendation id was accepted or dismissed in
// this session.
func (s *Store) Dismissed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dismissed[id]
	return ok
}
