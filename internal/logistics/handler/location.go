package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// LocationHandler handles warehouse location endpoints
type LocationHandler struct {
	repo   *repository.LocationRepository
	logger *logger.Logger
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(repo *repository.LocationRepository, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		repo:   repo,
		logger: log,
	}
}

// CreateLocationRequest is the input shape for location creation
type CreateLocationRequest struct {
	Code         string   `json:"code" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	LocationType string   `json:"location_type" validate:"required,oneof=warehouse zone aisle rack bin"`
	ParentID     *int     `json:"parent_id"`
	Capacity     *float64 `json:"capacity" validate:"omitempty,gte=0"`
	Utilization  *float64 `json:"current_utilization" validate:"omitempty,gte=0"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	Notes        *string  `json:"notes"`
}

// UpdateLocationRequest is the partial input shape for location updates
type UpdateLocationRequest struct {
	Code         *string  `json:"code" validate:"omitempty,min=1"`
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	LocationType *string  `json:"location_type" validate:"omitempty,oneof=warehouse zone aisle rack bin"`
	ParentID     *int     `json:"parent_id"`
	Capacity     *float64 `json:"capacity" validate:"omitempty,gte=0"`
	Utilization  *float64 `json:"current_utilization" validate:"omitempty,gte=0"`
	Status       *string  `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	Notes        *string  `json:"notes"`
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	loc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	loc := &repository.WarehouseLocation{
		Code:         req.Code,
		Name:         req.Name,
		LocationType: req.LocationType,
		ParentID:     req.ParentID,
		Capacity:     req.Capacity,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if req.Utilization != nil {
		loc.Utilization = *req.Utilization
	}

	if err := h.repo.Create(r.Context(), loc); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, loc)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.WarehouseLocationPatch{
		Code:         req.Code,
		Name:         req.Name,
		LocationType: req.LocationType,
		ParentID:     req.ParentID,
		Capacity:     req.Capacity,
		Utilization:  req.Utilization,
		Status:       req.Status,
		Notes:        req.Notes,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}
