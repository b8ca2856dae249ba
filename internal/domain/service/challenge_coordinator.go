package service

import (
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// Challenge response messages.
const (
	MessageChallengeAccepted  = "challenge verification succeeded"
	MessageChallengeRejected  = "incorrect verification code, please retry"
	MessageChallengeMalformed = "invalid verification code format"
	SkipReasonLowRisk         = "low risk transaction"
)

// ChallengeConfig describes the step-up challenge presented to shoppers.
type ChallengeConfig struct {
	Method   string
	Issuer   string
	Endpoint string
}

// DefaultChallengeConfig returns the mock 3-D Secure challenge.
func DefaultChallengeConfig() ChallengeConfig {
	return ChallengeConfig{
		Method:   "3DS2.0",
		Issuer:   "Mock Bank",
		Endpoint: "/3ds-challenge-page",
	}
}

// ChallengeDecision is either Skipped with a reason or Required with the
// challenge parameters.
type ChallengeDecision struct {
	SkipReason string
	Method     string
	Issuer     string
	Endpoint   string
	Required   bool
}

// ChallengeVerdict is the result of validating a challenge response.
type ChallengeVerdict struct {
	Outcome valueobject.ChallengeOutcome
	Message string
}

// Accepted reports whether the response passed.
func (v ChallengeVerdict) Accepted() bool {
	return v.Outcome.Equal(valueobject.ChallengeAccepted)
}

// ChallengeCoordinator decides when a step-up challenge is needed and checks
// responses to it.
type ChallengeCoordinator struct {
	validator port.ChallengeValidator
	config    ChallengeConfig
}

// NewChallengeCoordinator creates a coordinator. A nil validator selects
// LeadingDigitValidator.
func NewChallengeCoordinator(cfg ChallengeConfig, validator port.ChallengeValidator) *ChallengeCoordinator {
	if validator == nil {
		validator = LeadingDigitValidator{}
	}
	return &ChallengeCoordinator{
		validator: validator,
		config:    cfg,
	}
}

// Decide returns Required exactly when the assessment demands step-up.
func (c *ChallengeCoordinator) Decide(assessment model.RiskAssessment) ChallengeDecision {
	if !assessment.StepUpRequired() {
		return ChallengeDecision{SkipReason: SkipReasonLowRisk}
	}
	return ChallengeDecision{
		Required: true,
		Method:   c.config.Method,
		Issuer:   c.config.Issuer,
		Endpoint: c.config.Endpoint,
	}
}

// ValidateResponse checks a shopper's challenge response.
func (c *ChallengeCoordinator) ValidateResponse(code, cardNumber string) ChallengeVerdict {
	outcome := c.validator.Validate(code, cardNumber)
	switch outcome {
	case valueobject.ChallengeAccepted:
		return ChallengeVerdict{Outcome: outcome, Message: MessageChallengeAccepted}
	case valueobject.ChallengeRejected:
		return ChallengeVerdict{Outcome: outcome, Message: MessageChallengeRejected}
	default:
		return ChallengeVerdict{Outcome: valueobject.ChallengeMalformed, Message: MessageChallengeMalformed}
	}
}

var _ port.ChallengeValidator = LeadingDigitValidator{}

// LeadingDigitValidator is the mock issuer rule: a six-digit code is accepted
// when it starts with '1'.
type LeadingDigitValidator struct{}

// Validate implements port.ChallengeValidator. The card number is not used.
func (LeadingDigitValidator) Validate(code, _ string) valueobject.ChallengeOutcome {
	if len(code) != 6 {
		return valueobject.ChallengeMalformed
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return valueobject.ChallengeMalformed
		}
	}
	if code[0] != '1' {
		return valueobject.ChallengeRejected
	}
	return valueobject.ChallengeAccepted
}
