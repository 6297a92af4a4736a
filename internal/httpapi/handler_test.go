package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"idops-controlplane/internal/config"
	"idops-controlplane/pkg/authz"
	"idops-controlplane/pkg/health"
	"idops-controlplane/services/recommendation"
	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type memKV struct {
	data map[string][]byte
}

func (m *memKV) Load(_ context.Context, key string) ([]byte, error) { return m.data[key], nil }
func (m *memKV) Save(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

type denyOracle struct {
	denied map[authz.Capability]bool
}

func (o *denyOracle) Allow(_ string, cap authz.Capability) bool { return !o.denied[cap] }

func newTestRouter(t *testing.T) (http.Handler, *denyOracle, *snapshot.Holder) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg, err := config.Provide()
	require.NoError(t, err)

	oracle := &denyOracle{denied: make(map[authz.Capability]bool)}
	store := task.NewStore(task.Params{
		Oracle: oracle,
		KV:     &memKV{data: make(map[string][]byte)},
		Node:   node,
		Config: cfg,
	})
	holder := snapshot.NewHolder()

	router := ProvideRouter(RouterParams{
		Config:   cfg,
		Store:    store,
		Engine:   recommendation.NewEngine(),
		Snapshot: holder,
		Health:   health.ProvideHealth(health.HealthParams{}),
	})
	return router, oracle, holder
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "alice")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTasks(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks", map[string]any{
		"title":    "Review disabled accounts",
		"category": "users",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "alice", created.CreatedBy)
	require.Equal(t, task.StatusPending, created.Status)

	rec = doJSON(t, router, http.MethodGet, "/v1/tasks?status=pending&priority=high", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Tasks []task.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Tasks, 1)
	require.Equal(t, created.ID, listed.Tasks[0].ID)
}

func TestCreateTaskValidationError(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks", map[string]any{
		"category": "users",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDeniedIsForbidden(t *testing.T) {
	router, oracle, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks", map[string]any{
		"title": "x", "category": "users",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	oracle.denied[authz.CapDeleteTask] = true
	rec = doJSON(t, router, http.MethodDelete, "/v1/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSetStatusUnknownTask(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks/task-unknown/status", map[string]any{
		"status": "in-progress",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkStatusEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks", map[string]any{"title": "a", "category": "users"})
	var a task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))

	rec = doJSON(t, router, http.MethodPost, "/v1/tasks/bulk/status", map[string]any{
		"ids":    []string{a.ID, "task-missing"},
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res task.BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, []string{a.ID}, res.Applied)
	require.Equal(t, []string{"task-missing"}, res.Skipped)
}

func TestSnapshotAndRecommendationFlow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/v1/snapshot", map[string]any{
		"users": map[string]any{"total": 100, "disabled": 12},
		"security": map[string]any{
			"mfaEnabled":      100,
			"riskyUsersCount": 0,
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/recommendations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Recommendations []recommendation.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.NotEmpty(t, listed.Recommendations)
	require.Equal(t, "disabled-users", listed.Recommendations[0].ID)

	// accept converts it into a task and drops it from the session list
	rec = doJSON(t, router, http.MethodPost, "/v1/recommendations/disabled-users/accept", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, task.SourceRecommendation, created.Source)

	rec = doJSON(t, router, http.MethodGet, "/v1/recommendations", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	for _, r := range listed.Recommendations {
		require.NotEqual(t, "disabled-users", r.ID)
	}
}

func TestAcceptUnknownRecommendation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/recommendations/nope/accept", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDismissRecommendation(t *testing.T) {
	router, _, holder := newTestRouter(t)
	holder.Set(snapshot.Snapshot{Users: snapshot.Users{Total: 10, Disabled: 2}})

	rec := doJSON(t, router, http.MethodPost, "/v1/recommendations/disabled-users/dismiss", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/recommendations", nil)
	var listed struct {
		Recommendations []recommendation.Recommendation `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	for _, r := range listed.Recommendations {
		require.NotEqual(t, "disabled-users", r.ID)
	}
}

func TestExportEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/tasks", map[string]any{"title": "a", "category": "users"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/tasks/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var exported struct {
		Records []task.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Len(t, exported.Records, 1)
	require.Equal(t, "a", exported.Records[0].Title)
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
