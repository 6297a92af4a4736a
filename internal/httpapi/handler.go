package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"idops-controlplane/internal/config"
	"idops-controlplane/pkg/errutil"
	"idops-controlplane/pkg/health"
	"idops-controlplane/pkg/middleware"
	"idops-controlplane/services/recommendation"
	"idops-controlplane/services/snapshot"
	"idops-controlplane/services/task"
)

var Module = fx.Module("httpapi",
	fx.Provide(ProvideRouter),
)

type RouterParams struct {
	fx.In
	Config   *config.Config
	Store    *task.Store
	Engine   *recommendation.Engine
	Snapshot *snapshot.Holder
	Health   health.HealthService
}

// ProvideRouter builds the gin router. The HTTP layer never checks
// capabilities itself; the store re-checks on every mutation.
func ProvideRouter(p RouterParams) http.Handler {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handler{
		store:    p.Store,
		engine:   p.Engine,
		snapshot: p.Snapshot,
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Actor(), middleware.Error())

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)

	v1 := r.Group("/v1")
	{
		v1.GET("/tasks", h.listTasks)
		v1.POST("/tasks", h.createTask)
		v1.GET("/tasks/export", h.exportTasks)
		v1.PATCH("/tasks/:id", h.editTask)
		v1.DELETE("/tasks/:id", h.deleteTask)
		v1.POST("/tasks/:id/status", h.setStatus)
		v1.POST("/tasks/bulk/status", h.bulkSetStatus)
		v1.POST("/tasks/bulk/delete", h.bulkDelete)

		v1.PUT("/snapshot", h.putSnapshot)
		v1.GET("/recommendations", h.listRecommendations)
		v1.POST("/recommendations/:id/accept", h.acceptRecommendation)
		v1.POST("/recommendations/:id/dismiss", h.dismissRecommendation)
	}

	return r
}

type handler struct {
	store    *task.Store
	engine   *recommendation.Engine
	snapshot *snapshot.Holder
}

func (h *handler) listTasks(c *gin.Context) {
	filters := task.Filters{
		Status:   c.DefaultQuery("status", "all"),
		Priority: c.DefaultQuery("priority", "all"),
		Category: c.DefaultQuery("category", "all"),
		Search:   c.Query("search"),
	}
	sortBy := task.SortBy(c.DefaultQuery("sortBy", string(task.SortByPriority)))
	order := task.SortOrder(c.DefaultQuery("sortOrder", string(task.SortAsc)))

	c.JSON(http.StatusOK, gin.H{"tasks": h.store.List(filters, sortBy, order)})
}

func (h *handler) createTask(c *gin.Context) {
	var in task.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.store.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) editTask(c *gin.Context) {
	var patch task.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.store.Edit(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handler) deleteTask(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStatusRequest struct {
	Status task.Status `json:"status"`
}

func (h *handler) setStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.store.SetStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type bulkStatusRequest struct {
	IDs    []string    `json:"ids"`
	Status task.Status `json:"status"`
}

func (h *handler) bulkSetStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	res, err := h.store.BulkSetStatus(c.Request.Context(), actor(c), req.IDs, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *handler) bulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	res, err := h.store.BulkDelete(c.Request.Context(), actor(c), req.IDs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) exportTasks(c *gin.Context) {
	records, err := h.store.Export(actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *handler) putSnapshot(c *gin.Context) {
	var snap snapshot.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		_ = c.Error(errutil.BadRequest("invalid snapshot body", err))
		return
	}
	h.snapshot.Set(snap)
	c.Status(http.StatusNoContent)
}

func (h *handler) listRecommendations(c *gin.Context) {
	recs := h.engine.Evaluate(h.snapshot.Get())

	out := make([]recommendation.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if !h.store.Dismissed(rec.ID) {
			out = append(out, rec)
		}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": out})
}

func (h *handler) acceptRecommendation(c *gin.Context) {
	rec, ok := h.engine.Find(h.snapshot.Get(), c.Param("id"))
	if !ok {
		_ = c.Error(errutil.NotFound("recommendation not found", nil))
		return
	}

	created, err := h.store.AcceptRecommendation(c.Request.Context(), actor(c), rec.Input())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) dismissRecommendation(c *gin.Context) {
	if err := h.store.DismissRecommendation(actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func actor(c *gin.Context) string {
	return middleware.ActorFrom(c.Request.Context())
}
