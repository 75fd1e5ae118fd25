package adminhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/auth"
	"staffready/internal/platform/jobs"
	"staffready/internal/platform/metrics"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
	"staffready/internal/transport/http/shared"
)

type Handler struct {
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Perms   middleware.PermissionStore
}

func NewHandler(jobSvc *jobs.Service, collector *metrics.Collector, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: jobSvc, Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/jobs/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Post("/jobs/run", h.handleRunSweep)
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/metrics", h.handleMetrics)
	})
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.Jobs.ListRuns(r.Context(), r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_runs_failed", "failed to list job runs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.SweepNow(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sweep_failed", "document expiry sweep failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
