package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// CheckoutRequest is the input DTO for the InitiateCheckout use case.
// Amount is required; a nil Amount means the field was absent. Empty Currency
// and IPCountry take the configured home defaults.
type CheckoutRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"payment_method"`
	CardNumber    string           `json:"card_number"`
	CardCountry   string           `json:"card_country"`
	IPCountry     string           `json:"ip_country"`
	UserHistory   int              `json:"user_history"`
}

// RiskSummary is the assessment block of a pending-challenge response.
type RiskSummary struct {
	Narrative      *string  `json:"narrative"`
	RiskLevel      string   `json:"risk_level"`
	Reasons        []string `json:"reasons"`
	RiskScore      int      `json:"risk_score"`
	StepUpRequired bool     `json:"step_up_required"`
}

// ChallengeInfo tells the client how to run the step-up challenge.
type ChallengeInfo struct {
	Method   string `json:"method"`
	Issuer   string `json:"issuer"`
	Endpoint string `json:"endpoint"`
}

// CheckoutResponse is the output DTO of InitiateCheckout. Its JSON form
// depends on Status.
type CheckoutResponse struct {
	Narrative     *string
	Challenge     *ChallengeInfo
	Status        string
	TransactionID string
	RiskLevel     string
	Message       string
	NextStep      string
	Reasons       []string
	RiskScore     int
	StepUp        bool
}

type successBody struct {
	Narrative     *string  `json:"narrative"`
	Status        string   `json:"status"`
	TransactionID string   `json:"transaction_id"`
	RiskLevel     string   `json:"risk_level"`
	Message       string   `json:"message"`
	Reasons       []string `json:"reasons"`
	RiskScore     int      `json:"risk_score"`
}

type pendingBody struct {
	Challenge     *ChallengeInfo `json:"challenge"`
	Status        string         `json:"status"`
	TransactionID string         `json:"transaction_id"`
	NextStep      string         `json:"next_step"`
	Message       string         `json:"message"`
	Risk          RiskSummary    `json:"risk"`
}

type failedBody struct {
	TransactionID *string `json:"transaction_id"`
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	RiskScore     int     `json:"risk_score"`
}

// MarshalJSON renders the status-specific response shape.
func (r CheckoutResponse) MarshalJSON() ([]byte, error) {
	switch r.Status {
	case valueobject.CheckoutStatusSuccess.String():
		return json.Marshal(successBody{
			Status:        r.Status,
			TransactionID: r.TransactionID,
			RiskScore:     r.RiskScore,
			RiskLevel:     r.RiskLevel,
			Reasons:       nonNil(r.Reasons),
			Narrative:     r.Narrative,
			Message:       r.Message,
		})
	case valueobject.CheckoutStatusPendingChallenge.String():
		return json.Marshal(pendingBody{
			Status:        r.Status,
			TransactionID: r.TransactionID,
			Risk:          r.Risk(),
			NextStep:      r.NextStep,
			Challenge:     r.Challenge,
			Message:       r.Message,
		})
	default:
		return json.Marshal(failedBody{
			Status:    r.Status,
			RiskScore: r.RiskScore,
			Message:   r.Message,
		})
	}
}

// Risk returns the assessment summary carried by the response.
func (r CheckoutResponse) Risk() RiskSummary {
	return RiskSummary{
		RiskScore:      r.RiskScore,
		RiskLevel:      r.RiskLevel,
		Reasons:        nonNil(r.Reasons),
		StepUpRequired: r.StepUp,
		Narrative:      r.Narrative,
	}
}

// FromCheckoutOutcome maps an orchestrator outcome to the response DTO.
func FromCheckoutOutcome(out service.CheckoutOutcome) CheckoutResponse {
	a := out.Assessment
	resp := CheckoutResponse{
		Status:        out.Status.String(),
		TransactionID: out.TransactionID,
		RiskScore:     a.Score(),
		RiskLevel:     a.Level().String(),
		Reasons:       a.Reasons(),
		StepUp:        a.StepUpRequired(),
		Message:       out.Message,
		NextStep:      out.NextStep,
	}
	if a.HasNarrative() {
		n := a.Narrative()
		resp.Narrative = &n
	}
	if out.Status.Equal(valueobject.CheckoutStatusPendingChallenge) {
		resp.Challenge = &ChallengeInfo{
			Method:   out.Challenge.Method,
			Issuer:   out.Challenge.Issuer,
			Endpoint: out.Challenge.Endpoint,
		}
	}
	return resp
}

// ChallengeRequest is the input DTO for SubmitChallenge. VerificationCode is
// the legacy name of ChallengeCode and is read only when ChallengeCode is empty.
type ChallengeRequest struct {
	TransactionID    string `json:"transaction_id"`
	ChallengeCode    string `json:"challenge_code"`
	VerificationCode string `json:"verification_code"`
	CardNumber       string `json:"card_number"`
}

// Code returns the submitted challenge code.
func (r ChallengeRequest) Code() string {
	if r.ChallengeCode != "" {
		return r.ChallengeCode
	}
	return r.VerificationCode
}

// ChallengeResponse is the output DTO of SubmitChallenge.
type ChallengeResponse struct {
	TransactionID  *string `json:"transaction_id,omitempty"`
	PaymentMessage *string `json:"payment_message,omitempty"`
	RiskScore      *int    `json:"risk_score,omitempty"`
	Message        string  `json:"message"`
	Success        bool    `json:"success"`
}

// FromResumeOutcome maps an orchestrator resume outcome to the response DTO.
// Settlement fields and the score are set only on success.
func FromResumeOutcome(out service.ResumeOutcome) ChallengeResponse {
	resp := ChallengeResponse{
		Success: out.Success,
		Message: out.Message,
	}
	if !out.Success {
		return resp
	}
	id, msg := out.SettlementID, out.PaymentMessage
	resp.TransactionID = &id
	resp.PaymentMessage = &msg
	if score, ok := out.RiskScore(); ok {
		resp.RiskScore = &score
	}
	return resp
}

// NarrativeStatusResponse describes the narrative delegate configuration.
type NarrativeStatusResponse struct {
	Model          string `json:"model"`
	BaseURL        string `json:"base_url"`
	Configured     bool   `json:"configured"`
	APIKeyProvided bool   `json:"api_key_provided"`
}

// AssessmentResponse is the offline scoring output used by tooling.
type AssessmentResponse struct {
	Narrative      *string  `json:"narrative"`
	RiskLevel      string   `json:"risk_level"`
	Reasons        []string `json:"reasons"`
	RiskScore      int      `json:"risk_score"`
	StepUpRequired bool     `json:"step_up_required"`
}

// FromAssessment maps a domain assessment to AssessmentResponse.
func FromAssessment(a model.RiskAssessment) AssessmentResponse {
	resp := AssessmentResponse{
		RiskScore:      a.Score(),
		RiskLevel:      a.Level().String(),
		Reasons:        nonNil(a.Reasons()),
		StepUpRequired: a.StepUpRequired(),
	}
	if a.HasNarrative() {
		n := a.Narrative()
		resp.Narrative = &n
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
