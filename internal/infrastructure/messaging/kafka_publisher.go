package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/pkg/events"
	"github.com/bibbank/smart-checkout/pkg/kafka"
)

// Producer is the subset of kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

var _ port.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher implements port.EventPublisher using Kafka. Each event is
// wrapped in an events.Envelope and keyed by its aggregate id.
type KafkaPublisher struct {
	producer Producer
	logger   *slog.Logger
	topic    string
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka in a single batch.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		value, err := env.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal envelope %s: %w", env.EventType, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(env.AggregateID),
			Value: value,
			Headers: map[string]string{
				"content-type": "application/json",
				"event-type":   env.EventType,
				"event-id":     env.ID,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(messages), err)
	}

	p.logger.Debug("published events",
		slog.String("topic", p.topic),
		slog.Int("count", len(messages)),
	)
	return nil
}
