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

// OrderHandler handles customer order endpoints
type OrderHandler struct {
	repo      *repository.OrderRepository
	publisher *events.LogisticsEventPublisher
	logger    *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(repo *repository.OrderRepository, pub *events.LogisticsEventPublisher, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// CreateOrderRequest is the input shape for order creation
type CreateOrderRequest struct {
	OrderNumber     string     `json:"order_number" validate:"required"`
	CustomerName    string     `json:"customer_name" validate:"required"`
	CustomerEmail   *string    `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   *string    `json:"customer_phone"`
	ShippingAddress *string    `json:"shipping_address"`
	Status          string     `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	OrderDate       *time.Time `json:"order_date"`
	TotalAmount     float64    `json:"total_amount" validate:"gte=0"`
	Notes           *string    `json:"notes"`
}

// UpdateOrderRequest is the partial input shape for order updates
type UpdateOrderRequest struct {
	OrderNumber     *string    `json:"order_number" validate:"omitempty,min=1"`
	CustomerName    *string    `json:"customer_name" validate:"omitempty,min=1"`
	CustomerEmail   *string    `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   *string    `json:"customer_phone"`
	ShippingAddress *string    `json:"shipping_address"`
	Status          *string    `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	OrderDate       *time.Time `json:"order_date"`
	TotalAmount     *float64   `json:"total_amount" validate:"omitempty,gte=0"`
	Notes           *string    `json:"notes"`
}

// CreateOrderItemRequest is the input shape for order lines
type CreateOrderItemRequest struct {
	MaterialID *int    `json:"material_id"`
	Quantity   float64 `json:"quantity" validate:"gte=0"`
	UnitPrice  float64 `json:"unit_price" validate:"gte=0"`
}

// UpdateOrderItemRequest is the partial input shape for order lines
type UpdateOrderItemRequest struct {
	MaterialID *int     `json:"material_id"`
	Quantity   *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice  *float64 `json:"unit_price" validate:"omitempty,gte=0"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *OrderHandler) GetItems(w http.ResponseWriter, r *http.Request) {
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

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	order := &repository.Order{
		OrderNumber:     req.OrderNumber,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Status:          req.Status,
		OrderDate:       req.OrderDate,
		TotalAmount:     req.TotalAmount,
		Notes:           req.Notes,
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, order)
}

func (h *OrderHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req CreateOrderItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	item := &repository.OrderItem{
		OrderID:    id,
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	}

	if err := h.repo.CreateItem(r.Context(), item); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, item)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.OrderPatch{
		OrderNumber:     req.OrderNumber,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Status:          req.Status,
		OrderDate:       req.OrderDate,
		TotalAmount:     req.TotalAmount,
		Notes:           req.Notes,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	if req.Status != nil {
		number := ""
		if req.OrderNumber != nil {
			number = *req.OrderNumber
		} else if order, err := h.repo.GetByID(r.Context(), id); err == nil && order != nil {
			number = order.OrderNumber
		}
		h.publisher.PublishOrderStatusChanged(r.Context(), id, number, *req.Status)
	}

	httputil.Ack(w)
}

func (h *OrderHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.Error(w, errors.BadRequest("invalid item id"))
		return
	}

	var req UpdateOrderItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.OrderItemPatch{
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
	}

	if err := h.repo.UpdateItem(r.Context(), itemID, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Ack(w)
}
