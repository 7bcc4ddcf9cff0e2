package events

import (
	"context"

	"github.com/craftline/craftline-backend/internal/flags/repository"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/messaging"
)

// FlagEventPublisher publishes feature flag events
type FlagEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewFlagEventPublisher creates a new flag event publisher
func NewFlagEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*FlagEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeSupplyEvents, "admin-api", log)
	if err != nil {
		return nil, err
	}

	return &FlagEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishFlagToggled publishes a flag toggled event. Nil-tolerant:
// a server running without a broker carries a nil publisher.
func (p *FlagEventPublisher) PublishFlagToggled(ctx context.Context, flag *repository.FeatureFlag) {
	if p == nil {
		return
	}

	data := messaging.FlagToggledEvent{
		FlagID:  flag.ID,
		Key:     flag.Key,
		Enabled: flag.Enabled,
	}

	if err := p.publisher.Publish(ctx, messaging.EventFlagToggled, data); err != nil {
		p.logger.Error().Err(err).Str("key", flag.Key).Msg("failed to publish flag toggled event")
	}
}
