package event

import "time"

const (
	EventTypeRiskAssessed      = "checkout.risk.assessed"
	EventTypeChallengeIssued   = "checkout.challenge.issued"
	EventTypeChallengeRejected = "checkout.challenge.rejected"
	EventTypePaymentSettled    = "checkout.payment.settled"
	EventTypePaymentFailed     = "checkout.payment.failed"
)

// RiskAssessed is published for every scored checkout.
type RiskAssessed struct {
	AssessedAt     time.Time `json:"assessed_at"`
	CheckoutID     string    `json:"checkout_id"`
	PaymentMethod  string    `json:"payment_method"`
	RiskLevel      string    `json:"risk_level"`
	Reasons        []string  `json:"reasons"`
	RiskScore      int       `json:"risk_score"`
	StepUpRequired bool      `json:"step_up_required"`
}

func (e RiskAssessed) EventType() string   { return EventTypeRiskAssessed }
func (e RiskAssessed) AggregateID() string { return e.CheckoutID }

// ChallengeIssued is published when a checkout is suspended for step-up.
type ChallengeIssued struct {
	IssuedAt   time.Time `json:"issued_at"`
	CheckoutID string    `json:"checkout_id"`
	PendingID  string    `json:"pending_id"`
	Method     string    `json:"method"`
	Issuer     string    `json:"issuer"`
	RiskScore  int       `json:"risk_score"`
}

func (e ChallengeIssued) EventType() string   { return EventTypeChallengeIssued }
func (e ChallengeIssued) AggregateID() string { return e.CheckoutID }

// ChallengeRejected is published when a challenge response fails validation.
// The pending entry is left in place.
type ChallengeRejected struct {
	RejectedAt time.Time `json:"rejected_at"`
	PendingID  string    `json:"pending_id"`
	Outcome    string    `json:"outcome"`
}

func (e ChallengeRejected) EventType() string   { return EventTypeChallengeRejected }
func (e ChallengeRejected) AggregateID() string { return e.PendingID }

// PaymentSettled is published when a settlement channel accepts the charge.
type PaymentSettled struct {
	SettledAt    time.Time `json:"settled_at"`
	CheckoutID   string    `json:"checkout_id"`
	SettlementID string    `json:"settlement_id"`
	Channel      string    `json:"channel"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	RiskScore    int       `json:"risk_score"`
	AfterStepUp  bool      `json:"after_step_up"`
}

func (e PaymentSettled) EventType() string   { return EventTypePaymentSettled }
func (e PaymentSettled) AggregateID() string { return e.CheckoutID }

// PaymentFailed is published when routing or settlement ends a checkout.
type PaymentFailed struct {
	FailedAt      time.Time `json:"failed_at"`
	CheckoutID    string    `json:"checkout_id"`
	PaymentMethod string    `json:"payment_method"`
	Message       string    `json:"message"`
	RiskScore     int       `json:"risk_score"`
}

func (e PaymentFailed) EventType() string   { return EventTypePaymentFailed }
func (e PaymentFailed) AggregateID() string { return e.CheckoutID }
