package messaging

import (
	"context"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/pkg/events"
)

var _ port.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to the logger. Used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event envelope.
func (p *LogPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_id", env.ID),
			slog.String("event_type", env.EventType),
			slog.String("aggregate_id", env.AggregateID),
			slog.String("payload", string(env.Payload)),
		)
	}
	return nil
}
