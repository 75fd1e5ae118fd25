package candidateshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/audit"
	"staffready/internal/domain/auth"
	"staffready/internal/domain/candidates"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
	"staffready/internal/transport/http/shared"
)

type Handler struct {
	Store *candidates.Store
	Audit *audit.Service
	Perms middleware.PermissionStore
}

func NewHandler(store *candidates.Store, auditSvc *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/candidates", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCandidatesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCandidatesWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{candidateID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCandidatesRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermCandidatesWrite, h.Perms)).Put("/", h.handleUpdate)
		})
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var profile *candidates.Candidate
	cand, err := h.Store.GetByUserID(r.Context(), user.UserID)
	if err == nil {
		profile = cand
	} else if !errors.Is(err, candidates.ErrNotFound) {
		slog.Warn("candidate lookup failed", "userId", user.UserID, "err", err)
	}

	api.Success(w, map[string]any{
		"user": map[string]string{
			"id":     user.UserID,
			"roleId": user.RoleID,
			"role":   user.RoleName,
		},
		"candidate": profile,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	// Candidates only ever see their own profile through the list route.
	if user.RoleName == auth.RoleCandidate {
		cand, err := h.Store.GetByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Success(w, []candidates.Candidate{}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, []candidates.Candidate{*cand}, middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Store.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "candidate_list_failed", "failed to list candidates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cand, err := h.Store.Get(r.Context(), chi.URLParam(r, "candidateID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleName == auth.RoleCandidate && cand.UserID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, cand, middleware.GetRequestID(r.Context()))
}

type candidateRequest struct {
	UserID          string   `json:"userId"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	OccupationCode  string   `json:"occupationCode"`
	SpecialtyCodes  []string `json:"specialtyCodes"`
	SkillsSummary   string   `json:"skillsSummary"`
	ShiftPreference string   `json:"shiftPreference"`
	LocationPref    string   `json:"locationPreference"`
}

func (p candidateRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("firstName", p.FirstName, "is required")
	v.Required("lastName", p.LastName, "is required")
	v.Required("email", p.Email, "is required")
	if strings.TrimSpace(p.Email) != "" && !strings.Contains(p.Email, "@") {
		v.Add("email", "must be a valid email address")
	}
	return v
}

func (p candidateRequest) toModel() candidates.Candidate {
	return candidates.Candidate{
		UserID:          strings.TrimSpace(p.UserID),
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Email:           strings.TrimSpace(p.Email),
		Phone:           strings.TrimSpace(p.Phone),
		OccupationCode:  strings.TrimSpace(p.OccupationCode),
		SpecialtyCodes:  p.SpecialtyCodes,
		SkillsSummary:   strings.TrimSpace(p.SkillsSummary),
		ShiftPreference: strings.TrimSpace(p.ShiftPreference),
		LocationPref:    strings.TrimSpace(p.LocationPref),
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cand := payload.toModel()
	if user.RoleName == auth.RoleCandidate {
		cand.UserID = user.UserID
	}

	id, err := h.Store.Create(r.Context(), cand)
	if err != nil {
		api.Fail(w, http.StatusConflict, "candidate_create_failed", "candidate already exists for this user", middleware.GetRequestID(r.Context()))
		return
	}
	cand.ID = id

	h.record(r, "candidates.create", id, nil, cand)
	api.Created(w, cand, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	candidateID := chi.URLParam(r, "candidateID")
	existing, err := h.Store.Get(r.Context(), candidateID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "candidate not found", middleware.GetRequestID(r.Context()))
		return
	}
	if user.RoleName == auth.RoleCandidate && existing.UserID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	var payload candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cand := payload.toModel()
	cand.ID = candidateID
	cand.UserID = existing.UserID
	if err := h.Store.Update(r.Context(), cand); err != nil {
		api.Fail(w, http.StatusInternalServerError, "candidate_update_failed", "failed to update candidate", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "candidates.update", candidateID, existing, cand)
	api.Success(w, cand, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, "candidate", entityID, middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
