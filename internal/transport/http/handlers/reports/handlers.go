package reportshandler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffready/internal/domain/auth"
	"staffready/internal/domain/documents"
	"staffready/internal/domain/jobs"
	"staffready/internal/domain/reports"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(db *pgxpool.Pool, service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{DB: db, Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
	})
	r.Route("/candidates/{candidateID}/readiness-report", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Post("/", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleDownload)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var candidateCount int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM candidates").Scan(&candidateCount); err != nil {
		log.Printf("candidate count failed: %v", err)
	}

	var pendingDocs int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM candidate_documents WHERE status = $1", documents.StatusPendingVerification).Scan(&pendingDocs); err != nil {
		log.Printf("pending document count failed: %v", err)
	}

	var expiredDocs int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM candidate_documents WHERE status = $1", documents.StatusExpired).Scan(&expiredDocs); err != nil {
		log.Printf("expired document count failed: %v", err)
	}

	var openJobs int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM jobs WHERE status = $1", jobs.JobStatusOpen).Scan(&openJobs); err != nil {
		log.Printf("open job count failed: %v", err)
	}

	var applications int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM job_applications").Scan(&applications); err != nil {
		log.Printf("application count failed: %v", err)
	}

	api.Success(w, map[string]int{
		"candidates":           candidateCount,
		"documentsPending":     pendingDocs,
		"documentsExpired":     expiredDocs,
		"openJobs":             openJobs,
		"applicationsReceived": applications,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")
	path, err := h.Service.GenerateReadinessPDF(r.Context(), candidateID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate readiness report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"candidateId": candidateID, "path": path}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")
	path := h.Service.ReportPath(candidateID)
	if path == "" {
		api.Fail(w, http.StatusNotFound, "not_found", "no report generated for this candidate", middleware.GetRequestID(r.Context()))
		return
	}

	data, err := h.Service.ReadReport(path)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to read readiness report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=readiness-"+candidateID+".pdf")
	if _, err := w.Write(data); err != nil {
		log.Printf("report write failed: %v", err)
	}
}
