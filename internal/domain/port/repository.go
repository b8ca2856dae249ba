package port

import (
	"context"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
	"github.com/bibbank/smart-checkout/pkg/events"
)

// PendingTransactionStore holds checkouts suspended for a step-up challenge.
type PendingTransactionStore interface {
	// Put stores the transaction with its assessment and returns a fresh
	// opaque id.
	Put(ctx context.Context, txn model.Transaction, assessment model.RiskAssessment) (string, error)

	// Take atomically returns and removes the entry for id. For any id at most
	// one Take ever reports found=true.
	Take(ctx context.Context, id string) (challenge model.PendingChallenge, found bool, err error)
}

// SettlementChannel charges a transaction through one payment channel.
type SettlementChannel interface {
	// Name returns the payment method this channel serves.
	Name() string
	Settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error)
}

// NarrativeClient produces a human-readable risk explanation from an external
// text-generation service.
type NarrativeClient interface {
	Explain(ctx context.Context, txn model.Transaction, score int, reasons []string) (string, error)
	Model() string
	BaseURL() string
}

// ChallengeValidator decides whether a challenge response proves the shopper
// holds the card.
type ChallengeValidator interface {
	Validate(code, cardNumber string) valueobject.ChallengeOutcome
}

// CheckoutRecordRepository persists the audit trail of checkout outcomes.
type CheckoutRecordRepository interface {
	Save(ctx context.Context, record model.CheckoutRecord) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// CheckoutMetrics records operational counters for checkouts.
type CheckoutMetrics interface {
	RecordAssessment(ctx context.Context, level valueobject.RiskLevel, score int)
	RecordOutcome(ctx context.Context, status valueobject.CheckoutStatus)
	RecordChallenge(ctx context.Context, outcome valueobject.ChallengeOutcome)
	RecordNarrative(ctx context.Context, source string)
}
