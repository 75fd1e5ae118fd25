package documentshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/audit"
	"staffready/internal/domain/auth"
	"staffready/internal/domain/candidates"
	"staffready/internal/domain/documents"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
	"staffready/internal/transport/http/shared"
)

type Handler struct {
	Service    *documents.Service
	Store      *documents.Store
	Candidates *candidates.Store
	Audit      *audit.Service
	Perms      middleware.PermissionStore
}

func NewHandler(service *documents.Service, store *documents.Store, cand *candidates.Store, auditSvc *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Store: store, Candidates: cand, Audit: auditSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/candidates/{candidateID}/documents", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Post("/", h.handleUpload)
		r.Route("/{documentID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermDocumentsVerify, h.Perms)).Post("/verify", h.handleVerify)
			r.With(middleware.RequirePermission(auth.PermDocumentsVerify, h.Perms)).Post("/reject", h.handleReject)
			r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Post("/replace", h.handleReplace)
			r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Delete("/", h.handleDelete)
		})
	})
}

// candidateScope loads the candidate and enforces that candidate-role users
// only touch their own ledger.
func (h *Handler) candidateScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return "", false
	}

	candidateID := chi.URLParam(r, "candidateID")
	cand, err := h.Candidates.Get(r.Context(), candidateID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", middleware.GetRequestID(r.Context()))
		return "", false
	}
	if user.RoleName == auth.RoleCandidate && cand.UserID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return candidateID, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	docs, err := h.Store.ListByCandidate(r.Context(), candidateID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_list_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, docs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	doc, err := h.Store.Get(r.Context(), candidateID, chi.URLParam(r, "documentID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, doc, middleware.GetRequestID(r.Context()))
}

type uploadRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Issuer    string `json:"issuer"`
	IssuedOn  string `json:"issuedOn"`
	ExpiresOn string `json:"expiresOn"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}

	var payload uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("type", payload.Type, "is required")
	issuedOn := parseOptionalDate(v, "issuedOn", payload.IssuedOn)
	expiresOn := parseOptionalDate(v, "expiresOn", payload.ExpiresOn)
	if issuedOn != nil && expiresOn != nil {
		v.DateOrder("issuedOn", *issuedOn, "expiresOn", *expiresOn)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Upload(r.Context(), candidateID, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Type), strings.TrimSpace(payload.Issuer), issuedOn, expiresOn)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_upload_failed", "failed to record document", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "documents.upload", id, nil, payload)
	api.Created(w, map[string]string{"id": id, "status": documents.StatusPendingVerification}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentID")
	if err := h.Service.Verify(r.Context(), candidateID, documentID); err != nil {
		h.failTransition(w, r, err)
		return
	}
	h.record(r, "documents.verify", documentID, nil, nil)
	api.Success(w, map[string]string{"id": documentID, "status": documents.StatusCompleted}, middleware.GetRequestID(r.Context()))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentID")

	var payload rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("reason", payload.Reason, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.Reject(r.Context(), candidateID, documentID, strings.TrimSpace(payload.Reason)); err != nil {
		h.failTransition(w, r, err)
		return
	}
	h.record(r, "documents.reject", documentID, nil, payload)
	api.Success(w, map[string]string{"id": documentID, "status": documents.StatusValidationFailed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentID")

	var payload uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	issuedOn := parseOptionalDate(v, "issuedOn", payload.IssuedOn)
	expiresOn := parseOptionalDate(v, "expiresOn", payload.ExpiresOn)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.Replace(r.Context(), candidateID, documentID, strings.TrimSpace(payload.Name), strings.TrimSpace(payload.Issuer), issuedOn, expiresOn); err != nil {
		h.failTransition(w, r, err)
		return
	}
	h.record(r, "documents.replace", documentID, nil, payload)
	api.Success(w, map[string]string{"id": documentID, "status": documents.StatusPendingVerification}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.candidateScope(w, r)
	if !ok {
		return
	}
	documentID := chi.URLParam(r, "documentID")
	if err := h.Service.Delete(r.Context(), candidateID, documentID); err != nil {
		h.failTransition(w, r, err)
		return
	}
	h.record(r, "documents.delete", documentID, nil, nil)
	api.Success(w, map[string]string{"id": documentID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failTransition(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, documents.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "document status does not allow this action", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "document_update_failed", "failed to update document", middleware.GetRequestID(r.Context()))
	}
}

func parseOptionalDate(v *shared.Validator, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "candidate_document", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
