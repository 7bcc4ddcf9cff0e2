package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/craftline/craftline-backend/internal/logistics/events"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, errors.BadRequest("invalid id")
	}
	return id, nil
}

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	repo      *repository.PurchaseOrderRepository
	publisher *events.LogisticsEventPublisher
	logger    *logger.Logger
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(repo *repository.PurchaseOrderRepository, pub *events.LogisticsEventPublisher, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// CreatePurchaseOrderRequest is the input shape for purchase order creation
type CreatePurchaseOrderRequest struct {
	OrderNumber  string     `json:"order_number" validate:"required"`
	SupplierID   *int       `json:"supplier_id"`
	Status       string     `json:"status" validate:"omitempty,oneof=draft submitted confirmed shipped delivered cancelled"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
	TotalAmount  float64    `json:"total_amount" validate:"gte=0"`
	Notes        *string    `json:"notes"`
}

// UpdatePurchaseOrderRequest is the partial input shape for updates
type UpdatePurchaseOrderRequest struct {
	OrderNumber  *string    `json:"order_number" validate:"omitempty,min=1"`
	SupplierID   *int       `json:"supplier_id"`
	Status       *string    `json:"status" validate:"omitempty,oneof=draft submitted confirmed shipped delivered cancelled"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
	TotalAmount  *float64   `json:"total_amount" validate:"omitempty,gte=0"`
	Notes        *string    `json:"notes"`
}

// CreatePurchaseOrderItemRequest is the input shape for order lines
type CreatePurchaseOrderItemRequest struct {
	MaterialID       *int    `json:"material_id"`
	Quantity         float64 `json:"quantity" validate:"gte=0"`
	UnitPrice        float64 `json:"unit_price" validate:"gte=0"`
	ReceivedQuantity float64 `json:"received_quantity" validate:"gte=0"`
}

// UpdatePurchaseOrderItemRequest is the partial input shape for order lines
type UpdatePurchaseOrderItemRequest struct {
	MaterialID       *int     `json:"material_id"`
	Quantity         *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice        *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	ReceivedQuantity *float64 `json:"received_quantity" validate:"omitempty,gte=0"`
}

func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

func (h *PurchaseOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, order)
}

func (h *PurchaseOrderHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	items, err := h.repo.ListItems(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, items)
}

func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	order := &repository.PurchaseOrder{
		OrderNumber:  req.OrderNumber,
		SupplierID:   req.SupplierID,
		Status:       req.Status,
		OrderDate:    req.OrderDate,
		ExpectedDate: req.ExpectedDate,
		TotalAmount:  req.TotalAmount,
		Notes:        req.Notes,
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, order)
}

func (h *PurchaseOrderHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req CreatePurchaseOrderItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	item := &repository.PurchaseOrderItem{
		PurchaseOrderID:  id,
		MaterialID:       req.MaterialID,
		Quantity:         req.Quantity,
		UnitPrice:        req.UnitPrice,
		ReceivedQuantity: req.ReceivedQuantity,
	}

	if err := h.repo.CreateItem(r.Context(), item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, item)
}

func (h *PurchaseOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdatePurchaseOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.PurchaseOrderPatch{
		OrderNumber:  req.OrderNumber,
		SupplierID:   req.SupplierID,
		Status:       req.Status,
		OrderDate:    req.OrderDate,
		ExpectedDate: req.ExpectedDate,
		TotalAmount:  req.TotalAmount,
		Notes:        req.Notes,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	number := ""
	status := ""
	if req.OrderNumber != nil {
		number = *req.OrderNumber
	}
	if req.Status != nil {
		status = *req.Status
	}
	if number == "" || status == "" {
		if order, err := h.repo.GetByID(r.Context(), id); err == nil && order != nil {
			number = order.OrderNumber
			status = order.Status
		}
	}
	h.publisher.PublishPurchaseOrderUpdated(r.Context(), id, number, status)

	httputil.Ack(w)
}

func (h *PurchaseOrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid item id"))
		return
	}

	var req UpdatePurchaseOrderItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.PurchaseOrderItemPatch{
		MaterialID:       req.MaterialID,
		Quantity:         req.Quantity,
		UnitPrice:        req.UnitPrice,
		ReceivedQuantity: req.ReceivedQuantity,
	}

	if err := h.repo.UpdateItem(r.Context(), itemID, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}
