package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// CheckoutRecord is the audit trail entry written for every checkout outcome.
type CheckoutRecord struct {
	CreatedAt      time.Time
	Amount         decimal.Decimal
	Status         valueobject.CheckoutStatus
	RiskLevel      valueobject.RiskLevel
	Currency       string
	PaymentMethod  string
	ReferenceID    string
	Message        string
	Reasons        []string
	RiskScore      int
	StepUpRequired bool
	ID             uuid.UUID
}

// NewCheckoutRecord captures a transaction, its assessment and the outcome.
// referenceID is the settlement id on success, the pending id on suspension,
// and empty on failure.
func NewCheckoutRecord(
	txn Transaction,
	assessment RiskAssessment,
	status valueobject.CheckoutStatus,
	referenceID string,
	message string,
) CheckoutRecord {
	return CheckoutRecord{
		ID:             uuid.New(),
		ReferenceID:    referenceID,
		Status:         status,
		PaymentMethod:  txn.PaymentMethod().String(),
		Amount:         txn.Amount(),
		Currency:       txn.Currency(),
		RiskScore:      assessment.Score(),
		RiskLevel:      assessment.Level(),
		Reasons:        assessment.Reasons(),
		StepUpRequired: assessment.StepUpRequired(),
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}
}
