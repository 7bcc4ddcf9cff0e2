package events

import (
	"context"

	"github.com/craftline/craftline-backend/internal/catalog/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/messaging"
)

// CatalogEventPublisher publishes catalog and stock events
type CatalogEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewCatalogEventPublisher creates a new catalog event publisher
func NewCatalogEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*CatalogEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeSupplyEvents, "admin-api", log)
	if err != nil {
		return nil, err
	}

	return &CatalogEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishStockLow publishes a low-stock alert for the material.
// Nil-tolerant: a server running without a broker carries a nil publisher.
func (p *CatalogEventPublisher) PublishStockLow(ctx context.Context, m *repository.Material) {
	if p == nil {
		return
	}

	data := messaging.StockLowEvent{
		MaterialID:   m.ID,
		Name:         m.Name,
		SKU:          m.SKU,
		CurrentStock: m.CurrentStock,
		ReorderLevel: m.ReorderLevel,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockLow, data); err != nil {
		p.logger.Error().Err(err).Int("material_id", m.ID).Msg("failed to publish stock low event")
	}
}
