package events

import (
	"context"

	"github.com/craftline/craftline-backend/internal/production/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/messaging"
)

// ProductionEventPublisher publishes production events
type ProductionEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewProductionEventPublisher creates a new production event publisher
func NewProductionEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ProductionEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeSupplyEvents, "admin-api", log)
	if err != nil {
		return nil, err
	}

	return &ProductionEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishBatchCreated publishes a batch created event. Nil-tolerant:
// a server running without a broker carries a nil publisher.
func (p *ProductionEventPublisher) PublishBatchCreated(ctx context.Context, batch *repository.Batch) {
	if p == nil {
		return
	}

	data := messaging.BatchStatusChangedEvent{
		BatchID:     batch.ID,
		BatchNumber: batch.BatchNumber,
		Status:      batch.Status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventBatchCreated, data); err != nil {
		p.logger.Error().Err(err).Str("batch_number", batch.BatchNumber).Msg("failed to publish batch created event")
	}
}

// PublishBatchStatusChanged publishes a batch status change event.
func (p *ProductionEventPublisher) PublishBatchStatusChanged(ctx context.Context, batchID int, batchNumber, status string) {
	if p == nil {
		return
	}

	data := messaging.BatchStatusChangedEvent{
		BatchID:     batchID,
		BatchNumber: batchNumber,
		Status:      status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventBatchStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Int("batch_id", batchID).Msg("failed to publish batch status event")
	}
}
