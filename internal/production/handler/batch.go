package handler

import (
	"net/http"
	"time"

	"github.com/craftline/craftline-backend/internal/production/events"
	"github.com/craftline/craftline-backend/internal/production/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// BatchHandler handles production batch endpoints
type BatchHandler struct {
	repo      *repository.BatchRepository
	publisher *events.ProductionEventPublisher
	logger    *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(repo *repository.BatchRepository, pub *events.ProductionEventPublisher, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// CreateBatchRequest is the input shape for batch creation
type CreateBatchRequest struct {
	BatchNumber string     `json:"batch_number" validate:"required"`
	RecipeID    *int       `json:"recipe_id"`
	ProductID   *int       `json:"product_id"`
	Quantity    float64    `json:"quantity" validate:"gte=0"`
	Unit        string     `json:"unit" validate:"required"`
	Status      string     `json:"status" validate:"omitempty,oneof=planned in_progress completed failed on_hold"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
}

// UpdateBatchRequest is the partial input shape for batch updates
type UpdateBatchRequest struct {
	BatchNumber *string    `json:"batch_number" validate:"omitempty,min=1"`
	RecipeID    *int       `json:"recipe_id"`
	ProductID   *int       `json:"product_id"`
	Quantity    *float64   `json:"quantity" validate:"omitempty,gte=0"`
	Unit        *string    `json:"unit" validate:"omitempty,min=1"`
	Status      *string    `json:"status" validate:"omitempty,oneof=planned in_progress completed failed on_hold"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
}

func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	batches, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, batches)
}

func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	batch, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, batch)
}

func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	batch := &repository.Batch{
		BatchNumber: req.BatchNumber,
		RecipeID:    req.RecipeID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}

	if err := h.repo.Create(r.Context(), batch); err != nil {
		httputil.Error(w, err)
		return
	}

	h.publisher.PublishBatchCreated(r.Context(), batch)
	httputil.Created(w, batch)
}

func (h *BatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateBatchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.BatchPatch{
		BatchNumber: req.BatchNumber,
		RecipeID:    req.RecipeID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	if req.Status != nil {
		number := ""
		if req.BatchNumber != nil {
			number = *req.BatchNumber
		} else if batch, err := h.repo.GetByID(r.Context(), id); err == nil && batch != nil {
			number = batch.BatchNumber
		}
		h.publisher.PublishBatchStatusChanged(r.Context(), id, number, *req.Status)
	}

	httputil.Ack(w)
}

func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
