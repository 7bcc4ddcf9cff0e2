package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Inventory events
	EventTransactionRecorded = "inventory.transaction.recorded"
	EventStockLow            = "inventory.stock.low"

	// Production events
	EventBatchCreated       = "production.batch.created"
	EventBatchStatusChanged = "production.batch.status_changed"

	// Logistics events
	EventShipmentStatusChanged = "logistics.shipment.status_changed"
	EventOrderStatusChanged    = "logistics.order.status_changed"
	EventPurchaseOrderUpdated  = "logistics.purchase_order.updated"

	// Flag events
	EventFlagToggled = "flags.flag.toggled"
)

// Exchange names
const (
	ExchangeSupplyEvents = "supply.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// TransactionRecordedEvent is emitted after an inventory ledger append
type TransactionRecordedEvent struct {
	TransactionID   int     `json:"transaction_id"`
	MaterialID      int     `json:"material_id"`
	TransactionType string  `json:"transaction_type"`
	Quantity        float64 `json:"quantity"`
	ReferenceType   string  `json:"reference_type,omitempty"`
	ReferenceID     int     `json:"reference_id,omitempty"`
}

// StockLowEvent is emitted when a material's stock falls to or below its
// reorder level
type StockLowEvent struct {
	MaterialID   int     `json:"material_id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	CurrentStock float64 `json:"current_stock"`
	ReorderLevel float64 `json:"reorder_level"`
}

// PurchaseOrderUpdatedEvent is emitted after a purchase order mutation
type PurchaseOrderUpdatedEvent struct {
	PurchaseOrderID int    `json:"purchase_order_id"`
	OrderNumber     string `json:"order_number"`
	Status          string `json:"status,omitempty"`
}

// BatchStatusChangedEvent is emitted when a production batch moves status
type BatchStatusChangedEvent struct {
	BatchID     int    `json:"batch_id"`
	BatchNumber string `json:"batch_number"`
	Status      string `json:"status"`
}

// ShipmentStatusChangedEvent is emitted when a shipment moves status
type ShipmentStatusChangedEvent struct {
	ShipmentID     int    `json:"shipment_id"`
	ShipmentNumber string `json:"shipment_number"`
	Type           string `json:"type"`
	Status         string `json:"status"`
}

// FlagToggledEvent is emitted when a feature flag's enabled bit flips
type FlagToggledEvent struct {
	FlagID  int    `json:"flag_id"`
	Key     string `json:"key"`
	Enabled int    `json:"enabled"`
}
