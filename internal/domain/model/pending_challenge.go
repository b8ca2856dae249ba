package model

import "time"

// PendingChallenge is a transaction suspended while the shopper completes a
// step-up challenge. It is written once and read once.
type PendingChallenge struct {
	createdAt   time.Time
	id          string
	transaction Transaction
	assessment  RiskAssessment
}

// NewPendingChallenge binds a transaction and its assessment to an opaque id.
func NewPendingChallenge(id string, txn Transaction, assessment RiskAssessment, createdAt time.Time) PendingChallenge {
	return PendingChallenge{
		id:          id,
		transaction: txn,
		assessment:  assessment,
		createdAt:   createdAt,
	}
}

func (p PendingChallenge) ID() string                 { return p.id }
func (p PendingChallenge) Transaction() Transaction   { return p.transaction }
func (p PendingChallenge) Assessment() RiskAssessment { return p.assessment }
func (p PendingChallenge) CreatedAt() time.Time       { return p.createdAt }
