package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/catalog/events"
	"github.com/craftline/craftline-backend/internal/catalog/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// MaterialHandler handles material endpoints
type MaterialHandler struct {
	repo      *repository.MaterialRepository
	publisher *events.CatalogEventPublisher
	logger    *logger.Logger
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(repo *repository.MaterialRepository, pub *events.CatalogEventPublisher, log *logger.Logger) *MaterialHandler {
	return &MaterialHandler{repo: repo, publisher: pub, logger: log}
}

// CreateMaterialRequest is the input shape for material creation
type CreateMaterialRequest struct {
	Name         string   `json:"name" validate:"required"`
	SKU          string   `json:"sku" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=raw_material finished_product component"`
	Unit         string   `json:"unit" validate:"required"`
	UnitPrice    float64  `json:"unit_price" validate:"gte=0"`
	ReorderLevel float64  `json:"reorder_level" validate:"gte=0"`
	CurrentStock float64  `json:"current_stock" validate:"gte=0"`
	SupplierID   *int     `json:"supplier_id"`
	Status       string   `json:"status" validate:"omitempty,oneof=active discontinued out_of_stock"`
}

// UpdateMaterialRequest is the partial input shape for material updates
type UpdateMaterialRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	SKU          *string  `json:"sku" validate:"omitempty,min=1"`
	Type         *string  `json:"type" validate:"omitempty,oneof=raw_material finished_product component"`
	Unit         *string  `json:"unit" validate:"omitempty,min=1"`
	UnitPrice    *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	ReorderLevel *float64 `json:"reorder_level" validate:"omitempty,gte=0"`
	CurrentStock *float64 `json:"current_stock" validate:"omitempty,gte=0"`
	SupplierID   *int     `json:"supplier_id"`
	Status       *string  `json:"status" validate:"omitempty,oneof=active discontinued out_of_stock"`
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	materials, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, materials)
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	material, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, material)
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	material := &repository.Material{
		Name:         req.Name,
		SKU:          req.SKU,
		Type:         req.Type,
		Unit:         req.Unit,
		UnitPrice:    req.UnitPrice,
		ReorderLevel: req.ReorderLevel,
		CurrentStock: req.CurrentStock,
		SupplierID:   req.SupplierID,
		Status:       req.Status,
	}

	if err := h.repo.Create(r.Context(), material); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, material)
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateMaterialRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.MaterialPatch{
		Name:         req.Name,
		SKU:          req.SKU,
		Type:         req.Type,
		Unit:         req.Unit,
		UnitPrice:    req.UnitPrice,
		ReorderLevel: req.ReorderLevel,
		CurrentStock: req.CurrentStock,
		SupplierID:   req.SupplierID,
		Status:       req.Status,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	if req.CurrentStock != nil {
		if m, err := h.repo.GetByID(r.Context(), id); err == nil && m != nil && m.CurrentStock <= m.ReorderLevel {
			h.publisher.PublishStockLow(r.Context(), m)
		}
	}

	httputil.Ack(w)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
