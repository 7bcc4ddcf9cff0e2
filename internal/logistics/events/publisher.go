package events

import (
	"context"

	"github.com/craftline/craftline-backend/internal/logistics/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/messaging"
)

// LogisticsEventPublisher publishes logistics and inventory events
type LogisticsEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewLogisticsEventPublisher creates a new logistics event publisher
func NewLogisticsEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*LogisticsEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeSupplyEvents, "admin-api", log)
	if err != nil {
		return nil, err
	}

	return &LogisticsEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishTransactionRecorded publishes an inventory ledger append event.
// Nil-tolerant: a server running without a broker carries a nil publisher.
func (p *LogisticsEventPublisher) PublishTransactionRecorded(ctx context.Context, tx *repository.InventoryTransaction) {
	if p == nil {
		return
	}

	data := messaging.TransactionRecordedEvent{
		TransactionID:   tx.ID,
		TransactionType: tx.TransactionType,
		Quantity:        tx.Quantity,
	}
	if tx.MaterialID != nil {
		data.MaterialID = *tx.MaterialID
	}
	if tx.ReferenceType != nil {
		data.ReferenceType = *tx.ReferenceType
	}
	if tx.ReferenceID != nil {
		data.ReferenceID = *tx.ReferenceID
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransactionRecorded, data); err != nil {
		p.logger.Error().Err(err).Int("transaction_id", tx.ID).Msg("failed to publish transaction recorded event")
	}
}

// PublishPurchaseOrderUpdated publishes a purchase order mutation event.
func (p *LogisticsEventPublisher) PublishPurchaseOrderUpdated(ctx context.Context, orderID int, orderNumber, status string) {
	if p == nil {
		return
	}

	data := messaging.PurchaseOrderUpdatedEvent{
		PurchaseOrderID: orderID,
		OrderNumber:     orderNumber,
		Status:          status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventPurchaseOrderUpdated, data); err != nil {
		p.logger.Error().Err(err).Int("purchase_order_id", orderID).Msg("failed to publish purchase order updated event")
	}
}

// PublishShipmentStatusChanged publishes a shipment status change event.
func (p *LogisticsEventPublisher) PublishShipmentStatusChanged(ctx context.Context, shipmentID int, shipmentNumber, status string) {
	if p == nil {
		return
	}

	data := messaging.ShipmentStatusChangedEvent{
		ShipmentID:     shipmentID,
		ShipmentNumber: shipmentNumber,
		Type:           "shipment",
		Status:         status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventShipmentStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Int("shipment_id", shipmentID).Msg("failed to publish shipment status event")
	}
}

// PublishOrderStatusChanged publishes an order status change event.
func (p *LogisticsEventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID int, orderNumber, status string) {
	if p == nil {
		return
	}

	data := messaging.ShipmentStatusChangedEvent{
		ShipmentID:     orderID,
		ShipmentNumber: orderNumber,
		Type:           "order",
		Status:         status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventOrderStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Int("order_id", orderID).Msg("failed to publish order status event")
	}
}
