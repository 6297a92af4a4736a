package task

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"idops-controlplane/internal/config"
	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/errutil"
	"idops-controlplane/pkg/kvstore"
)

// Store owns the task collection. Every mutation checks the capability oracle
// first, applies the change to a working copy, persists the whole collection,
// and only then makes the change visible; a failed save never leaves the
// in-memory state ahead of the persisted one.
type Store struct {
	oracle authz.Oracle
	kv     kvstore.Store
	node   *snowflake.Node
	key    string
	now    func() time.Time

	mu        sync.Mutex
	tasks     []*Task
	dismissed map[string]struct{}
}

type Params struct {
	fx.In
	Oracle authz.Oracle
	KV     kvstore.Store
	Node   *snowflake.Node
	Config *config.Config
}

func NewStore(p Params) *Store {
	return &Store{
		oracle:    p.Oracle,
		kv:        p.KV,
		node:      p.Node,
		key:       p.Config.Tasks.Key,
		now:       time.Now,
		dismissed: make(map[string]struct{}),
	}
}

// Hydrate loads the persisted collection. A missing key is an empty
// collection, not an error.
func (s *Store) Hydrate(ctx context.Context) error {
	raw, err := s.kv.Load(ctx, s.key)
	if err != nil {
		return errutil.Unavailable("load task collection", err)
	}
	if raw == nil {
		return nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errutil.Internal("decode task collection", err)
	}

	s.mu.Lock()
	s.tasks = doc.Tasks
	s.mu.Unlock()

	zap.L().Info("task collection hydrated", zap.Int("tasks", len(doc.Tasks)))
	return nil
}

// persist saves next and swaps it in on success. Caller holds s.mu.
func (s *Store) persist(ctx context.Context, next []*Task) error {
	raw, err := json.Marshal(document{Tasks: next})
	if err != nil {
		return errutil.Internal("encode task collection", err)
	}
	if err := s.kv.Save(ctx, s.key, raw); err != nil {
		return errutil.Unavailable("persist task collection", err)
	}
	s.tasks = next
	return nil
}

// snapshot returns value copies of the current collection in insertion order.
func (s *Store) snapshot() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = *t
	}
	return out
}

func clone(tasks []*Task) []*Task {
	next := make([]*Task, len(tasks))
	copy(next, tasks)
	return next
}

func indexOf(tasks []*Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() string {
	return "task-" + s.node.Generate().String()
}

func logFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// List returns the filtered, sorted view of the collection. Read-only and
// idempotent; callers get value copies.
func (s *Store) List(f Filters, sortBy SortBy, order SortOrder) []Task {
	return Apply(s.snapshot(), f, sortBy, order, s.now())
}

// Get returns a copy of one task.
func (s *Store) Get(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.tasks, id)
	if idx < 0 {
		return nil, errutil.NotFound("task not found", nil)
	}
	t := *s.tasks[idx]
	return &t, nil
}

// Create adds a new task in status pending.
func (s *Store) Create(ctx context.Context, actor string, in CreateInput) (*Task, error) {
	if !s.oracle.Allow(actor, authz.CapCreateTask) {
		return nil, errutil.Forbidden("create:task denied", nil)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.newTask(actor, in)
	next := append(clone(s.tasks), t)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	zap.L().Info("task created", append(logFields(ctx),
		zap.String("task_id", t.ID),
		zap.String("source", string(t.Source)),
		zap.String("actor", actor),
	)...)

	out := *t
	return &out, nil
}

func (s *Store) newTask(actor string, in CreateInput) *Task {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Schedule == "" {
		in.Schedule = ScheduleNone
	}
	if in.Source == "" {
		in.Source = SourceManual
	}

	return &Task{
		ID:          s.nextID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Notes:       in.Notes,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      StatusPending,
		DueDate:     in.DueDate,
		Assignee:    in.Assignee,
		Schedule:    in.Schedule,
		Source:      in.Source,
		CreatedAt:   s.now(),
		CreatedBy:   actor,
		PlaybookID:  in.PlaybookID,
	}
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errutil.ValidationFailed("title is required", nil,
			errutil.WithDetails(errutil.Detail{Field: "title", Message: "required"}))
	}
	if !in.Category.Valid() {
		return errutil.ValidationFailed("invalid category", nil,
			errutil.WithDetails(errutil.Detail{Field: "category", Message: string(in.Category)}))
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return errutil.ValidationFailed("invalid priority", nil,
			errutil.WithDetails(errutil.Detail{Field: "priority", Message: string(in.Priority)}))
	}
	if in.Schedule != "" && !in.Schedule.Valid() {
		return errutil.ValidationFailed("invalid schedule", nil,
			errutil.WithDetails(errutil.Detail{Field: "schedule", Message: string(in.Schedule)}))
	}
	if in.Source != "" && !in.Source.Valid() {
		return errutil.ValidationFailed("invalid source", nil,
			errutil.WithDetails(errutil.Detail{Field: "source", Message: string(in.Source)}))
	}
	return nil
}

// Edit applies a partial update to any field except status.
func (s *Store) Edit(ctx context.Context, actor, id string, patch Patch) (*Task, error) {
	if !s.oracle.Allow(actor, authz.CapEditTask) {
		return nil, errutil.Forbidden("edit:task denied", nil)
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.tasks, id)
	if idx < 0 {
		return nil, errutil.NotFound("task not found", nil)
	}

	updated := *s.tasks[idx]
	patch.apply(&updated)

	next := clone(s.tasks)
	next[idx] = &updated
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	zap.L().Info("task edited", append(logFields(ctx),
		zap.String("task_id", id),
		zap.String("actor", actor),
	)...)

	out := updated
	return &out, nil
}

func (p Patch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errutil.ValidationFailed("title is required", nil,
			errutil.WithDetails(errutil.Detail{Field: "title", Message: "required"}))
	}
	if p.Category != nil && !p.Category.Valid() {
		return errutil.ValidationFailed("invalid category", nil,
			errutil.WithDetails(errutil.Detail{Field: "category", Message: string(*p.Category)}))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return errutil.ValidationFailed("invalid priority", nil,
			errutil.WithDetails(errutil.Detail{Field: "priority", Message: string(*p.Priority)}))
	}
	if p.Schedule != nil && !p.Schedule.Valid() {
		return errutil.ValidationFailed("invalid schedule", nil,
			errutil.WithDetails(errutil.Detail{Field: "schedule", Message: string(*p.Schedule)}))
	}
	return nil
}

func (p Patch) apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.Schedule != nil {
		t.Schedule = *p.Schedule
	}
	if p.PlaybookID != nil {
		t.PlaybookID = *p.PlaybookID
	}
}

// Delete removes a task permanently. There is no soft delete.
func (s *Store) Delete(ctx context.Context, actor, id string) error {
	if !s.oracle.Allow(actor, authz.CapDeleteTask) {
		return errutil.Forbidden("delete:task denied", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.tasks, id)
	if idx < 0 {
		return errutil.NotFound("task not found", nil)
	}

	next := make([]*Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	zap.L().Info("task deleted", append(logFields(ctx),
		zap.String("task_id", id),
		zap.String("actor", actor),
	)...)
	return nil
}

// SetStatus drives the state machine. Completing a task with a schedule
// spawns its successor in the same persisted write.
func (s *Store) SetStatus(ctx context.Context, actor, id string, to Status) (*Task, error) {
	if !to.Valid() {
		return nil, errutil.ValidationFailed("invalid status", nil,
			errutil.WithDetails(errutil.Detail{Field: "status", Message: string(to)}))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.tasks, id)
	if idx < 0 {
		return nil, errutil.NotFound("task not found", nil)
	}

	from := s.tasks[idx].Status
	if from == to {
		out := *s.tasks[idx]
		return &out, nil
	}
	if !allowedTransition(from, to) {
		return nil, errutil.ValidationFailed("invalid status transition", nil,
			errutil.WithDetails(errutil.Detail{Field: "status", Message: string(from) + " -> " + string(to)}))
	}
	if !s.oracle.Allow(actor, transitionCapability(from, to)) {
		return nil, errutil.Forbidden(string(transitionCapability(from, to))+" denied", nil)
	}

	next := clone(s.tasks)
	updated, successor := s.applyTransition(next, idx, to, actor)
	if successor != nil {
		next = append(next, successor)
	}

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	fields := append(logFields(ctx),
		zap.String("task_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor", actor),
	)
	if successor != nil {
		fields = append(fields, zap.String("successor_id", successor.ID))
	}
	zap.L().Info("task status changed", fields...)

	out := *updated
	return &out, nil
}

// applyTransition mutates next[idx] into the target status and returns the
// successor task when the transition completes a recurring task. The caller
// has already validated the transition and capability.
func (s *Store) applyTransition(next []*Task, idx int, to Status, actor string) (*Task, *Task) {
	updated := *next[idx]
	updated.Status = to

	var successor *Task
	switch to {
	case StatusCompleted:
		completedAt := s.now()
		updated.CompletedAt = &completedAt
		updated.CompletedBy = actor
		if updated.Schedule != ScheduleNone {
			successor = s.successor(&updated, completedAt)
		}
	case StatusPending:
		// Reopening clears the completion stamp. Any successor already
		// spawned stays: recurrence is one-shot per completion event.
		updated.CompletedAt = nil
		updated.CompletedBy = ""
	}

	next[idx] = &updated
	return &updated, successor
}
