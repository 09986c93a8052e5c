// Package messaging holds event publishers that need no cloud resources.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/domain/events"
)

// LogPublisher writes domain events to the log. It is used when no event bus
// is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("event_type", event.GetEventType()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.String("user_id", event.GetUserID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

func (p *LogPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, e := range evts {
		_ = p.Publish(ctx, e)
	}
	return nil
}
