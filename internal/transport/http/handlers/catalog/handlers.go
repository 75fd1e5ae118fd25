package cataloghandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffready/internal/domain/audit"
	"staffready/internal/domain/auth"
	"staffready/internal/domain/catalog"
	"staffready/internal/transport/http/api"
	"staffready/internal/transport/http/middleware"
	"staffready/internal/transport/http/shared"
)

type Handler struct {
	Store *catalog.Store
	Audit *audit.Service
	Perms middleware.PermissionStore
}

func NewHandler(store *catalog.Store, auditSvc *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/", h.handleListItems)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Post("/", h.handleCreateItem)
			r.Route("/{itemID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/", h.handleGetItem)
				r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Put("/", h.handleUpdateItem)
				r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Patch("/active", h.handleSetItemActive)
				r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Delete("/", h.handleDeleteItem)
			})
		})
		r.Route("/occupations", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/", h.handleListOccupations)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Post("/", h.handleCreateOccupation)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Patch("/{occupationID}/active", h.handleSetOccupationActive)
			r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/{occupationCode}/specialties", h.handleListOccupationSpecialties)
		})
		r.Route("/specialties", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/", h.handleListSpecialties)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Post("/", h.handleCreateSpecialty)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Patch("/{specialtyID}/active", h.handleSetSpecialtyActive)
		})
		r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Post("/occupation-specialties", h.handleLinkOccupationSpecialty)
		r.Route("/templates", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermCatalogRead, h.Perms)).Get("/", h.handleListTemplates)
			r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Post("/", h.handleCreateTemplate)
			r.Route("/{templateID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Put("/", h.handleUpdateTemplate)
				r.With(middleware.RequirePermission(auth.PermCatalogWrite, h.Perms)).Patch("/active", h.handleSetTemplateActive)
			})
		})
	})
}

type itemRequest struct {
	Name               string `json:"name"`
	Category           string `json:"category"`
	ExpirationType     string `json:"expirationType"`
	ExpirationValue    int    `json:"expirationRuleValue"`
	ExpirationInterval string `json:"expirationRuleInterval"`
	IssuerRequired     bool   `json:"issuerRequirement"`
	Issuer             string `json:"issuer"`
	ResponseStyle      string `json:"responseStyle"`
	DisplayToCandidate bool   `json:"displayToCandidate"`
	IsActive           *bool  `json:"isActive"`
}

func (p itemRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", p.Name, "is required")
	v.Required("category", p.Category, "is required")
	v.Enum("category", p.Category, catalog.Categories, "is not a known category")
	v.Enum("expirationType", p.ExpirationType, catalog.ExpirationTypes, "is not a known expiration type")
	if p.ExpirationType == catalog.ExpirationRule {
		if p.ExpirationValue <= 0 {
			v.Add("expirationRuleValue", "must be positive for rule-based expiration")
		}
		v.Enum("expirationRuleInterval", p.ExpirationInterval, catalog.ExpirationIntervals, "is not a known interval")
		if strings.TrimSpace(p.ExpirationInterval) == "" {
			v.Add("expirationRuleInterval", "is required for rule-based expiration")
		}
	}
	if p.ResponseStyle != "" {
		v.Enum("responseStyle", p.ResponseStyle, catalog.ResponseStyles, "is not a known response style")
	}
	return v
}

func (p itemRequest) toModel() catalog.ComplianceItem {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	style := p.ResponseStyle
	if strings.TrimSpace(style) == "" {
		style = catalog.ResponseUpload
	}
	return catalog.ComplianceItem{
		Name:               strings.TrimSpace(p.Name),
		Category:           p.Category,
		ExpirationType:     p.ExpirationType,
		ExpirationValue:    p.ExpirationValue,
		ExpirationInterval: p.ExpirationInterval,
		IssuerRequired:     p.IssuerRequired,
		Issuer:             strings.TrimSpace(p.Issuer),
		ResponseStyle:      style,
		DisplayToCandidate: p.DisplayToCandidate,
		IsActive:           active,
	}
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	total, err := h.Store.CountItems(r.Context(), includeInactive)
	if err != nil {
		slog.Warn("catalog item count failed", "err", err)
	}
	items, err := h.Store.ListItems(r.Context(), includeInactive, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_list_failed", "failed to list compliance items", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Store.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "compliance item not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	item := payload.toModel()
	id, err := h.Store.CreateItem(r.Context(), item)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_create_failed", "failed to create compliance item", middleware.GetRequestID(r.Context()))
		return
	}
	item.ID = id

	h.record(r, "catalog.item.create", "compliance_item", id, nil, item)
	api.Created(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	existing, err := h.Store.GetItem(r.Context(), itemID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "compliance item not found", middleware.GetRequestID(r.Context()))
		return
	}

	var payload itemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	item := payload.toModel()
	item.ID = itemID
	if payload.IsActive == nil {
		item.IsActive = existing.IsActive
	}
	if err := h.Store.UpdateItem(r.Context(), item); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update compliance item", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, "catalog.item.update", "compliance_item", itemID, existing, item)
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

type activeRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) handleSetItemActive(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	var payload activeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.SetItemActive(r.Context(), itemID, payload.IsActive); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update compliance item", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.item.set_active", "compliance_item", itemID, nil, payload)
	api.Success(w, map[string]any{"id": itemID, "isActive": payload.IsActive}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if err := h.Store.DeleteItem(r.Context(), itemID); err != nil {
		api.Fail(w, http.StatusConflict, "catalog_delete_failed", "item is referenced by a requirement list", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.item.delete", "compliance_item", itemID, nil, nil)
	api.Success(w, map[string]string{"id": itemID, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type occupationRequest struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func (h *Handler) handleListOccupations(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	occupations, err := h.Store.ListOccupations(r.Context(), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_list_failed", "failed to list occupations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, occupations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateOccupation(w http.ResponseWriter, r *http.Request) {
	var payload occupationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("code", payload.Code, "is required")
	v.Required("title", payload.Title, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateOccupation(r.Context(), strings.TrimSpace(payload.Code), strings.TrimSpace(payload.Title))
	if err != nil {
		api.Fail(w, http.StatusConflict, "catalog_create_failed", "occupation code already exists", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.occupation.create", "occupation", id, nil, payload)
	api.Created(w, map[string]string{"id": id, "code": payload.Code, "title": payload.Title}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetOccupationActive(w http.ResponseWriter, r *http.Request) {
	occupationID := chi.URLParam(r, "occupationID")
	var payload activeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.SetOccupationActive(r.Context(), occupationID, payload.IsActive); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update occupation", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.occupation.set_active", "occupation", occupationID, nil, payload)
	api.Success(w, map[string]any{"id": occupationID, "isActive": payload.IsActive}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSpecialties(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	specialties, err := h.Store.ListSpecialties(r.Context(), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_list_failed", "failed to list specialties", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, specialties, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var payload occupationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("code", payload.Code, "is required")
	v.Required("title", payload.Title, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateSpecialty(r.Context(), strings.TrimSpace(payload.Code), strings.TrimSpace(payload.Title))
	if err != nil {
		api.Fail(w, http.StatusConflict, "catalog_create_failed", "specialty code already exists", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.specialty.create", "specialty", id, nil, payload)
	api.Created(w, map[string]string{"id": id, "code": payload.Code, "title": payload.Title}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetSpecialtyActive(w http.ResponseWriter, r *http.Request) {
	specialtyID := chi.URLParam(r, "specialtyID")
	var payload activeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.SetSpecialtyActive(r.Context(), specialtyID, payload.IsActive); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update specialty", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.specialty.set_active", "specialty", specialtyID, nil, payload)
	api.Success(w, map[string]any{"id": specialtyID, "isActive": payload.IsActive}, middleware.GetRequestID(r.Context()))
}

type linkRequest struct {
	OccupationID string `json:"occupationId"`
	SpecialtyID  string `json:"specialtyId"`
}

func (h *Handler) handleLinkOccupationSpecialty(w http.ResponseWriter, r *http.Request) {
	var payload linkRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("occupationId", payload.OccupationID, "is required")
	v.Required("specialtyId", payload.SpecialtyID, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.LinkOccupationSpecialty(r.Context(), payload.OccupationID, payload.SpecialtyID)
	if err != nil {
		api.Fail(w, http.StatusConflict, "catalog_link_failed", "occupation and specialty are already linked", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.occupation_specialty.link", "occupation_specialty", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListOccupationSpecialties(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.Store.ListOccupationSpecialties(r.Context(), chi.URLParam(r, "occupationCode"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_list_failed", "failed to list occupation specialties", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, pairs, middleware.GetRequestID(r.Context()))
}

type templateRequest struct {
	Name           string   `json:"name"`
	OccupationCode string   `json:"occupationCode"`
	SpecialtyCode  string   `json:"specialtyCode"`
	ListItemIDs    []string `json:"listItemIds"`
	IsActive       *bool    `json:"isActive"`
}

func (p templateRequest) validate() *shared.Validator {
	v := shared.NewValidator()
	v.Required("name", p.Name, "is required")
	v.Required("occupationCode", p.OccupationCode, "is required")
	if len(p.ListItemIDs) == 0 {
		v.Add("listItemIds", "must name at least one compliance item")
	}
	return v
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	templates, err := h.Store.ListTemplates(r.Context(), r.URL.Query().Get("occupationCode"), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_list_failed", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload templateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	tpl := catalog.WalletTemplate{
		Name:           strings.TrimSpace(payload.Name),
		OccupationCode: strings.TrimSpace(payload.OccupationCode),
		SpecialtyCode:  strings.TrimSpace(payload.SpecialtyCode),
		ListItemIDs:    payload.ListItemIDs,
		IsActive:       payload.IsActive == nil || *payload.IsActive,
	}
	id, err := h.Store.CreateTemplate(r.Context(), tpl)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_create_failed", "failed to create template", middleware.GetRequestID(r.Context()))
		return
	}
	tpl.ID = id

	h.record(r, "catalog.template.create", "wallet_template", id, nil, tpl)
	api.Created(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	var payload templateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.validate().Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	tpl := catalog.WalletTemplate{
		ID:             templateID,
		Name:           strings.TrimSpace(payload.Name),
		OccupationCode: strings.TrimSpace(payload.OccupationCode),
		SpecialtyCode:  strings.TrimSpace(payload.SpecialtyCode),
		ListItemIDs:    payload.ListItemIDs,
		IsActive:       payload.IsActive == nil || *payload.IsActive,
	}
	if err := h.Store.UpdateTemplate(r.Context(), tpl); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update template", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.template.update", "wallet_template", templateID, nil, tpl)
	api.Success(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetTemplateActive(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateID")
	var payload activeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.SetTemplateActive(r.Context(), templateID, payload.IsActive); err != nil {
		api.Fail(w, http.StatusInternalServerError, "catalog_update_failed", "failed to update template", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, "catalog.template.set_active", "wallet_template", templateID, nil, payload)
	api.Success(w, map[string]any{"id": templateID, "isActive": payload.IsActive}, middleware.GetRequestID(r.Context()))
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
