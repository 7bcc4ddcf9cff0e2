package handler

import (
	"net/http"
	"time"

	"github.com/craftline/craftline-backend/internal/logistics/events"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// ShipmentHandler handles shipment endpoints
type ShipmentHandler struct {
	repo      *repository.ShipmentRepository
	publisher *events.LogisticsEventPublisher
	logger    *logger.Logger
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(repo *repository.ShipmentRepository, pub *events.LogisticsEventPublisher, log *logger.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// CreateShipmentRequest is the input shape for shipment creation
type CreateShipmentRequest struct {
	ShipmentNumber string     `json:"shipment_number" validate:"required"`
	ShipmentType   string     `json:"shipment_type" validate:"required,oneof=inbound outbound"`
	OrderID        *int       `json:"order_id"`
	Carrier        *string    `json:"carrier"`
	TrackingNumber *string    `json:"tracking_number"`
	Status         string     `json:"status" validate:"omitempty,oneof=pending in_transit delivered cancelled"`
	ShippedDate    *time.Time `json:"shipped_date"`
	DeliveredDate  *time.Time `json:"delivered_date"`
	Notes          *string    `json:"notes"`
}

// UpdateShipmentRequest is the partial input shape for shipment updates
type UpdateShipmentRequest struct {
	ShipmentNumber *string    `json:"shipment_number" validate:"omitempty,min=1"`
	ShipmentType   *string    `json:"shipment_type" validate:"omitempty,oneof=inbound outbound"`
	OrderID        *int       `json:"order_id"`
	Carrier        *string    `json:"carrier"`
	TrackingNumber *string    `json:"tracking_number"`
	Status         *string    `json:"status" validate:"omitempty,oneof=pending in_transit delivered cancelled"`
	ShippedDate    *time.Time `json:"shipped_date"`
	DeliveredDate  *time.Time `json:"delivered_date"`
	Notes          *string    `json:"notes"`
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, shipments)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, s)
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateShipmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	s := &repository.Shipment{
		ShipmentNumber: req.ShipmentNumber,
		ShipmentType:   req.ShipmentType,
		OrderID:        req.OrderID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		Status:         req.Status,
		ShippedDate:    req.ShippedDate,
		DeliveredDate:  req.DeliveredDate,
		Notes:          req.Notes,
	}

	if err := h.repo.Create(r.Context(), s); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, s)
}

func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateShipmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	patch := &repository.ShipmentPatch{
		ShipmentNumber: req.ShipmentNumber,
		ShipmentType:   req.ShipmentType,
		OrderID:        req.OrderID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		Status:         req.Status,
		ShippedDate:    req.ShippedDate,
		DeliveredDate:  req.DeliveredDate,
		Notes:          req.Notes,
	}

	if err := h.repo.Update(r.Context(), id, patch); err != nil {
		httputil.Error(w, err)
		return
	}

	if req.Status != nil {
		number := ""
		if req.ShipmentNumber != nil {
			number = *req.ShipmentNumber
		} else if s, err := h.repo.GetByID(r.Context(), id); err == nil && s != nil {
			number = s.ShipmentNumber
		}
		h.publisher.PublishShipmentStatusChanged(r.Context(), id, number, *req.Status)
	}

	httputil.Ack(w)
}
