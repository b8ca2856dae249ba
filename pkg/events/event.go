// Package events defines the envelope checkout domain events travel in.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event a checkout emits.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// Envelope is the wire form of a domain event: metadata plus the JSON body.
type Envelope struct {
	OccurredAt  time.Time       `json:"occurred_at"`
	ID          string          `json:"id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEnvelope wraps event with a fresh id and the current time.
func NewEnvelope(event DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s: %w", event.EventType(), err)
	}
	return Envelope{
		ID:          uuid.NewString(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}, nil
}

// Marshal encodes the envelope as JSON.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
