package pending

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// record is the serialized form of a pending challenge.
type record struct {
	CreatedAt   time.Time       `json:"created_at"`
	AssessedAt  time.Time       `json:"assessed_at"`
	Amount      decimal.Decimal `json:"amount"`
	ID          string          `json:"id"`
	Currency    string          `json:"currency"`
	Method      string          `json:"payment_method"`
	CardNumber  string          `json:"card_number,omitempty"`
	CardCountry string          `json:"card_country,omitempty"`
	IPCountry   string          `json:"ip_country,omitempty"`
	RiskLevel   string          `json:"risk_level"`
	Narrative   string          `json:"narrative,omitempty"`
	Reasons     []string        `json:"reasons"`
	UserHistory int             `json:"user_history"`
	RiskScore   int             `json:"risk_score"`
	StepUp      bool            `json:"step_up_required"`
}

func toRecord(p model.PendingChallenge) record {
	txn, a := p.Transaction(), p.Assessment()
	return record{
		ID:          p.ID(),
		CreatedAt:   p.CreatedAt(),
		Amount:      txn.Amount(),
		Currency:    txn.Currency(),
		Method:      txn.PaymentMethod().String(),
		CardNumber:  txn.CardNumber(),
		CardCountry: txn.CardCountry(),
		IPCountry:   txn.IPCountry(),
		UserHistory: txn.UserHistory(),
		RiskScore:   a.Score(),
		RiskLevel:   a.Level().String(),
		Reasons:     a.Reasons(),
		StepUp:      a.StepUpRequired(),
		Narrative:   a.Narrative(),
		AssessedAt:  a.AssessedAt(),
	}
}

func (r record) toModel() (model.PendingChallenge, error) {
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount:        r.Amount,
		Currency:      r.Currency,
		PaymentMethod: r.Method,
		CardNumber:    r.CardNumber,
		CardCountry:   r.CardCountry,
		IPCountry:     r.IPCountry,
		UserHistory:   r.UserHistory,
	})
	if err != nil {
		return model.PendingChallenge{}, fmt.Errorf("failed to rebuild transaction: %w", err)
	}
	level, err := valueobject.RiskLevelFromString(r.RiskLevel)
	if err != nil {
		return model.PendingChallenge{}, fmt.Errorf("failed to rebuild assessment: %w", err)
	}
	a := model.ReconstructRiskAssessment(r.RiskScore, level, r.Reasons, r.StepUp, r.Narrative, r.AssessedAt)
	return model.NewPendingChallenge(r.ID, txn, a, r.CreatedAt), nil
}
