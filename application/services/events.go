package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/application/ports"
	"github.com/Labib591/zyra/domain/events"
)

// PublishBestEffort publishes events and logs, rather than returns, a failure.
func PublishBestEffort(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, evts ...events.DomainEvent) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.PublishBatch(ctx, evts); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("event_type", evts[0].GetEventType()),
			zap.Int("count", len(evts)),
			zap.Error(err),
		)
	}
}
