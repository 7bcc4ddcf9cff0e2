package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/craftline/craftline-backend/internal/flags/events"
	"github.com/craftline/craftline-backend/internal/flags/repository"
	"github.com/craftline/craftline-backend/internal/flags/service"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// FlagHandler handles feature flag endpoints
type FlagHandler struct {
	repo      *repository.FlagRepository
	gate      *service.GateService
	publisher *events.FlagEventPublisher
	logger    *logger.Logger
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(repo *repository.FlagRepository, gate *service.GateService, pub *events.FlagEventPublisher, log *logger.Logger) *FlagHandler {
	return &FlagHandler{
		repo:      repo,
		gate:      gate,
		publisher: pub,
		logger:    log,
	}
}

// CreateFlagRequest is the input shape for flag creation
type CreateFlagRequest struct {
	Key          string  `json:"key" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description"`
	Enabled      int     `json:"enabled" validate:"oneof=0 1"`
	Category     *string `json:"category"`
	RequiredRole string  `json:"required_role" validate:"omitempty,oneof=user admin"`
}

// UpdateFlagRequest is the partial input shape for flag updates
type UpdateFlagRequest struct {
	Key          *string `json:"key" validate:"omitempty,min=1"`
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Description  *string `json:"description"`
	Enabled      *int    `json:"enabled" validate:"omitempty,oneof=0 1"`
	Category     *string `json:"category"`
	RequiredRole *string `json:"required_role" validate:"omitempty,oneof=user admin"`
}

// List returns all feature flags
func (h *FlagHandler) List(w http.ResponseWriter, r *http.Request) {
	flags, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, flags)
}

// Get returns a single flag by id, or null when absent
func (h *FlagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	flag, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, flag)
}

// IsEnabled answers the gate check for a flag key and the caller's role
func (h *FlagHandler) IsEnabled(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	role := httputil.GetUserRole(r.Context())

	enabled, err := h.gate.IsEnabled(r.Context(), key, role)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

// Create creates a feature flag. Admin-only; the guard wraps this at
// route registration.
func (h *FlagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFlagRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	flag := &repository.FeatureFlag{
		Key:          req.Key,
		Name:         req.Name,
		Description:  req.Description,
		Enabled:      req.Enabled,
		Category:     req.Category,
		RequiredRole: req.RequiredRole,
	}

	if err := h.repo.Create(r.Context(), flag); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, flag)
}

// Update applies a partial patch to a flag. Admin-only.
func (h *FlagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateFlagRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.FlagPatch{
		Key:          req.Key,
		Name:         req.Name,
		Description:  req.Description,
		Enabled:      req.Enabled,
		Category:     req.Category,
		RequiredRole: req.RequiredRole,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

// Toggle flips a flag's enabled bit. Admin-only. A missing id still
// answers success with no effect.
func (h *FlagHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	flag, err := h.repo.Toggle(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if flag != nil {
		h.publisher.PublishFlagToggled(r.Context(), flag)
	}

	httputil.Ack(w)
}

// Delete removes a flag. Admin-only.
func (h *FlagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, errors.BadRequest("invalid id")
	}
	return id, nil
}
