package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/logistics/events"
	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// TransactionHandler handles inventory ledger endpoints. The ledger is
// append-only: no update or delete routes exist.
type TransactionHandler struct {
	repo      *repository.TransactionRepository
	publisher *events.LogisticsEventPublisher
	logger    *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(repo *repository.TransactionRepository, pub *events.LogisticsEventPublisher, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// CreateTransactionRequest is the input shape for ledger appends
type CreateTransactionRequest struct {
	MaterialID      *int    `json:"material_id"`
	TransactionType string  `json:"transaction_type" validate:"required,oneof=receipt shipment adjustment production return"`
	Quantity        float64 `json:"quantity" validate:"required"`
	ReferenceType   *string `json:"reference_type" validate:"omitempty,min=1"`
	ReferenceID     *int    `json:"reference_id"`
	Notes           *string `json:"notes"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.repo.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	tx, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	tx := &repository.InventoryTransaction{
		MaterialID:      req.MaterialID,
		TransactionType: req.TransactionType,
		Quantity:        req.Quantity,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		Notes:           req.Notes,
	}
	if openID := httputil.GetOpenID(r.Context()); openID != "" {
		tx.CreatedBy = &openID
	}

	if err := h.repo.Create(r.Context(), tx); err != nil {
		httputil.Error(w, err)
		return
	}

	h.publisher.PublishTransactionRecorded(r.Context(), tx)
	httputil.Created(w, tx)
}
