package wallethandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/auth"
	"staffready/internal/domain/candidates"
	"staffready/internal/domain/catalog"
	"staffready/internal/domain/documents"
	"staffready/internal/domain/readiness"
	"staffready/internal/domain/wallet"
	"staffready/internal/platform/metrics"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
)

type Handler struct {
	Catalog    *catalog.Store
	Candidates *candidates.Store
	Documents  *documents.Store
	Metrics    *metrics.Collector
	Perms      middleware.PermissionStore
}

func NewHandler(cat *catalog.Store, cand *candidates.Store, docs *documents.Store, collector *metrics.Collector, perms middleware.PermissionStore) *Handler {
	return &Handler{Catalog: cat, Candidates: cand, Documents: docs, Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/candidates/{candidateID}", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/wallet", h.handleWallet)
		r.With(middleware.RequirePermission(auth.PermCandidatesRead, h.Perms)).Get("/readiness", h.handleReadiness)
	})
}

func (h *Handler) loadCandidate(w http.ResponseWriter, r *http.Request) (*candidates.Candidate, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return nil, false
	}

	cand, err := h.Candidates.Get(r.Context(), chi.URLParam(r, "candidateID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	if user.RoleName == auth.RoleCandidate && cand.UserID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return cand, true
}

// handleWallet returns the candidate's resolved requirement list together
// with the per-item state derived from their document ledger.
func (h *Handler) handleWallet(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.loadCandidate(w, r)
	if !ok {
		return
	}

	snap, err := h.Catalog.LoadSnapshot(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "wallet_failed", "failed to load requirement catalog", middleware.GetRequestID(r.Context()))
		return
	}
	docs, err := h.Documents.ListByCandidate(r.Context(), cand.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "wallet_failed", "failed to load documents", middleware.GetRequestID(r.Context()))
		return
	}

	required := wallet.Resolve(snap, cand.OccupationCode, cand.SpecialtyCodes)
	summary := wallet.Progress(required, docs)

	api.Success(w, map[string]any{
		"candidateId":    cand.ID,
		"occupationCode": cand.OccupationCode,
		"specialtyCodes": cand.SpecialtyCodes,
		"required":       required,
		"progress":       summary,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	cand, ok := h.loadCandidate(w, r)
	if !ok {
		return
	}

	snap, err := h.Catalog.LoadSnapshot(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "readiness_failed", "failed to load requirement catalog", middleware.GetRequestID(r.Context()))
		return
	}
	docs, err := h.Documents.ListByCandidate(r.Context(), cand.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "readiness_failed", "failed to load documents", middleware.GetRequestID(r.Context()))
		return
	}

	required := wallet.Resolve(snap, cand.OccupationCode, cand.SpecialtyCodes)
	verdict := readiness.Evaluate(candidates.OnboardingFor(*cand), docs, required)
	h.Metrics.RecordEvaluation()

	api.Success(w, verdict, middleware.GetRequestID(r.Context()))
}
