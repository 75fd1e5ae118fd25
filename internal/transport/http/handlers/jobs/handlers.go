package jobshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/audit"
	"staffready/internal/domain/auth"
	"staffready/internal/domain/candidates"
	"staffready/internal/domain/jobs"
	"staffready/internal/platform/metrics"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
	"staffready/internal/transport/http/shared"
)

type Handler struct {
	Service     *jobs.Service
	Candidates  *candidates.Store
	Audit       *audit.Service
	Metrics     *metrics.Collector
	Idempotency *middleware.IdempotencyStore
	Perms       middleware.PermissionStore
}

func NewHandler(service *jobs.Service, cand *candidates.Store, auditSvc *audit.Service, collector *metrics.Collector, idem *middleware.IdempotencyStore, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Candidates: cand, Audit: auditSvc, Metrics: collector, Idempotency: idem, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermJobsWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{jobID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermJobsWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/readiness", h.handleReadiness)
			r.With(middleware.RequirePermission(auth.PermJobsApply, h.Perms)).Post("/apply", h.handleApply)
		})
	})
	r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/applications", h.handleListApplications)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	status := r.URL.Query().Get("status")
	list, err := h.Service.Store.List(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list jobs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "job not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, job, middleware.GetRequestID(r.Context()))
}

type jobRequest struct {
	Title          string   `json:"title"`
	OccupationCode string   `json:"occupationCode"`
	SpecialtyCode  string   `json:"specialtyCode"`
	Facility       string   `json:"facility"`
	Location       string   `json:"location"`
	PayRate        float64  `json:"payRate"`
	Requirements   []string `json:"requirements"`
	Status         string   `json:"status"`
}

func (p jobRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("title", p.Title, "is required")
	v.Required("occupationCode", p.OccupationCode, "is required")
	v.Required("facility", p.Facility, "is required")
	if p.Status != "" {
		v.Enum("status", p.Status, []string{jobs.JobStatusOpen, jobs.JobStatusClosed}, "must be open or closed")
	}
	return v
}

func (p jobRequest) toModel() jobs.Job {
	status := strings.ToLower(strings.TrimSpace(p.Status))
	if status == "" {
		status = jobs.JobStatusOpen
	}
	return jobs.Job{
		Title:          strings.TrimSpace(p.Title),
		OccupationCode: strings.TrimSpace(p.OccupationCode),
		SpecialtyCode:  strings.TrimSpace(p.SpecialtyCode),
		Facility:       strings.TrimSpace(p.Facility),
		Location:       strings.TrimSpace(p.Location),
		PayRate:        p.PayRate,
		Requirements:   p.Requirements,
		Status:         status,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload jobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	job := payload.toModel()
	id, err := h.Service.Store.Create(r.Context(), job)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_create_failed", "failed to create job", middleware.GetRequestID(r.Context()))
		return
	}
	job.ID = id

	h.record(r, "jobs.create", "job", id, nil, job)
	api.Created(w, job, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	existing, err := h.Service.Store.Get(r.Context(), jobID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "job not found", middleware.GetRequestID(r.Context()))
		return
	}

	var payload jobRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	job := payload.toModel()
	job.ID = jobID
	if err := h.Service.Store.Update(r.Context(), job); err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_update_failed", "failed to update job", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "jobs.update", "job", jobID, existing, job)
	api.Success(w, job, middleware.GetRequestID(r.Context()))
}

// handleReadiness previews the verdict a candidate would get for this job
// without creating an application.
func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.resolveCandidateID(w, r, r.URL.Query().Get("candidateId"))
	if !ok {
		return
	}

	job, err := h.Service.Store.Get(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "job not found", middleware.GetRequestID(r.Context()))
		return
	}

	verdict, err := h.Service.EvaluateFor(r.Context(), candidateID, job)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "readiness_failed", "failed to evaluate readiness", middleware.GetRequestID(r.Context()))
		return
	}
	h.Metrics.RecordEvaluation()
	api.Success(w, verdict, middleware.GetRequestID(r.Context()))
}

type applyRequest struct {
	CandidateID string `json:"candidateId"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload applyRequest
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	candidateID, ok := h.resolveCandidateID(w, r, payload.CandidateID)
	if !ok {
		return
	}
	jobID := chi.URLParam(r, "jobID")

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	endpoint := "jobs.apply:" + jobID
	requestHash := middleware.RequestHash(raw)
	if idemKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, endpoint, idemKey, requestHash)
		if err != nil {
			if errors.Is(err, middleware.ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", middleware.GetRequestID(r.Context()))
				return
			}
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	appID, verdict, err := h.Service.Apply(r.Context(), candidateID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "job not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, jobs.ErrJobClosed):
			api.Fail(w, http.StatusConflict, "job_closed", "job is not open for applications", middleware.GetRequestID(r.Context()))
		case errors.Is(err, jobs.ErrAlreadyApplied):
			api.Fail(w, http.StatusConflict, "already_applied", "an application already exists for this job", middleware.GetRequestID(r.Context()))
		case errors.Is(err, jobs.ErrNotReady):
			h.Metrics.RecordApplyRejected()
			api.FailWithDetails(w, http.StatusConflict, "not_ready", verdict.Message, verdict, middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "apply_failed", "failed to submit application", middleware.GetRequestID(r.Context()))
		}
		return
	}

	result := map[string]any{
		"applicationId": appID,
		"jobId":         jobID,
		"candidateId":   candidateID,
		"score":         verdict.Score,
		"status":        jobs.ApplicationStatusSubmitted,
	}
	if idemKey != "" {
		encoded, err := json.Marshal(result)
		if err == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, endpoint, idemKey, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}

	h.record(r, "jobs.apply", "job_application", appID, nil, result)
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.resolveCandidateID(w, r, r.URL.Query().Get("candidateId"))
	if !ok {
		return
	}
	apps, err := h.Service.Store.ListApplications(r.Context(), candidateID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "application_list_failed", "failed to list applications", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, apps, middleware.GetRequestID(r.Context()))
}

// resolveCandidateID maps candidate-role users onto their own profile and
// lets staff pass an explicit candidateId.
func (h *Handler) resolveCandidateID(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return "", false
	}

	if user.RoleName == auth.RoleCandidate {
		cand, err := h.Candidates.GetByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "not_found", "candidate profile not found", middleware.GetRequestID(r.Context()))
			return "", false
		}
		if requested != "" && requested != cand.ID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return "", false
		}
		return cand.ID, true
	}

	if strings.TrimSpace(requested) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "candidateId is required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return requested, true
}

func (h *Handler) record(r *http.Request, action, entityType, entityID string, before, after any) {
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
