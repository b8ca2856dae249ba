package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/smart-checkout/internal/domain/event"
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
	"github.com/bibbank/smart-checkout/pkg/events"
)

// StepUpMode selects what happens to a checkout that requires step-up.
type StepUpMode string

const (
	// StepUpModeChallenge suspends the checkout until the challenge is passed.
	StepUpModeChallenge StepUpMode = "challenge"
	// StepUpModeSingleShot settles immediately and only reports the requirement.
	StepUpModeSingleShot StepUpMode = "single_shot"
)

// ParseStepUpMode parses a configured step-up mode.
func ParseStepUpMode(s string) (StepUpMode, error) {
	switch StepUpMode(s) {
	case StepUpModeChallenge, StepUpModeSingleShot:
		return StepUpMode(s), nil
	default:
		return "", fmt.Errorf("invalid step-up mode: %q", s)
	}
}

// Checkout messages.
const (
	NextStepCompleteChallenge   = "complete_challenge_verification"
	MessageChallengeRequired    = "additional verification required"
	MessageUnsupportedMethod    = "payment method not supported"
	MessageInvalidPendingID     = "transaction id invalid or expired"
	MessageSuspendFailed        = "unable to hold transaction for verification"
	MessageChallengeUnavailable = "verification service unavailable, please retry"
	MessageSettlementFailed     = "payment channel error"
)

// CheckoutOutcome is the result of initiating a checkout.
type CheckoutOutcome struct {
	Status valueobject.CheckoutStatus
	// CheckoutID correlates the events of one checkout.
	CheckoutID string
	// TransactionID is the settlement id on success, the pending id while a
	// challenge is outstanding, and empty on failure.
	TransactionID string
	NextStep      string
	Message       string
	Transaction   model.Transaction
	Assessment    model.RiskAssessment
	Challenge     ChallengeDecision
	Events        []events.DomainEvent
}

// ResumeOutcome is the result of answering a step-up challenge.
type ResumeOutcome struct {
	PendingID      string
	Message        string
	SettlementID   string
	PaymentMessage string
	Verdict        ChallengeVerdict
	// Pending is set once the suspended checkout has been taken from the store.
	Pending *model.PendingChallenge
	Events  []events.DomainEvent
	Success bool
}

// RiskScore returns the score stored with the suspended checkout, if it was
// reached.
func (o ResumeOutcome) RiskScore() (int, bool) {
	if o.Pending == nil {
		return 0, false
	}
	return o.Pending.Assessment().Score(), true
}

// CheckoutOrchestrator runs the checkout state machine: assess, decide on
// step-up, then settle now or suspend until the challenge is answered.
type CheckoutOrchestrator struct {
	engine     *RiskEngine
	challenges *ChallengeCoordinator
	store      port.PendingTransactionStore
	router     *SettlementRouter
	logger     *slog.Logger
	mode       StepUpMode
	rules      model.RuleSet
}

// NewCheckoutOrchestrator wires the orchestrator's collaborators.
func NewCheckoutOrchestrator(
	engine *RiskEngine,
	challenges *ChallengeCoordinator,
	store port.PendingTransactionStore,
	router *SettlementRouter,
	rules model.RuleSet,
	mode StepUpMode,
	logger *slog.Logger,
) *CheckoutOrchestrator {
	if mode == "" {
		mode = StepUpModeChallenge
	}
	return &CheckoutOrchestrator{
		engine:     engine,
		challenges: challenges,
		store:      store,
		router:     router,
		rules:      rules,
		mode:       mode,
		logger:     logger,
	}
}

// Rules returns the rule set the orchestrator scores with.
func (o *CheckoutOrchestrator) Rules() model.RuleSet {
	return o.rules
}

// Initiate assesses txn and either settles it, suspends it for a challenge,
// or fails it. It never returns an error; every failure is a failed outcome.
func (o *CheckoutOrchestrator) Initiate(ctx context.Context, txn model.Transaction) CheckoutOutcome {
	var collected events.Collector

	assessment := o.engine.Assess(ctx, txn, o.rules)
	out := CheckoutOutcome{
		CheckoutID:  uuid.NewString(),
		Transaction: txn,
		Assessment:  assessment,
		Challenge:   o.challenges.Decide(assessment),
	}
	collected.Record(event.RiskAssessed{
		CheckoutID:     out.CheckoutID,
		PaymentMethod:  txn.PaymentMethod().String(),
		RiskScore:      assessment.Score(),
		RiskLevel:      assessment.Level().String(),
		Reasons:        assessment.Reasons(),
		StepUpRequired: assessment.StepUpRequired(),
		AssessedAt:     assessment.AssessedAt(),
	})

	logger := o.logger.With(
		slog.String("checkout_id", out.CheckoutID),
		slog.Int("risk_score", assessment.Score()),
		slog.String("payment_method", txn.PaymentMethod().String()),
	)

	if out.Challenge.Required && o.mode == StepUpModeChallenge {
		pendingID, err := o.store.Put(ctx, txn, assessment)
		if err != nil {
			logger.Error("failed to suspend checkout for challenge", slog.Any("error", err))
			out.Status = valueobject.CheckoutStatusFailed
			out.Message = MessageSuspendFailed
			collected.Record(paymentFailed(out.CheckoutID, txn, assessment, out.Message))
			out.Events = collected.Drain()
			return out
		}

		logger.Info("checkout suspended for challenge", slog.String("pending_id", pendingID))
		out.Status = valueobject.CheckoutStatusPendingChallenge
		out.TransactionID = pendingID
		out.NextStep = NextStepCompleteChallenge
		out.Message = MessageChallengeRequired
		collected.Record(event.ChallengeIssued{
			CheckoutID: out.CheckoutID,
			PendingID:  pendingID,
			Method:     out.Challenge.Method,
			Issuer:     out.Challenge.Issuer,
			RiskScore:  assessment.Score(),
			IssuedAt:   time.Now().UTC(),
		})
		out.Events = collected.Drain()
		return out
	}

	result, ok := o.settle(ctx, txn)
	out.Message = result.Message
	if !ok {
		logger.Warn("checkout failed", slog.String("message", result.Message))
		out.Status = valueobject.CheckoutStatusFailed
		collected.Record(paymentFailed(out.CheckoutID, txn, assessment, out.Message))
		out.Events = collected.Drain()
		return out
	}

	logger.Info("checkout settled", slog.String("settlement_id", result.SettlementID))
	out.Status = valueobject.CheckoutStatusSuccess
	out.TransactionID = result.SettlementID
	collected.Record(paymentSettled(out.CheckoutID, txn, assessment, result, false))
	out.Events = collected.Drain()
	return out
}

// Resume validates a challenge response and, on acceptance, settles the
// suspended checkout exactly once. A rejected or malformed response leaves the
// suspended checkout in place.
func (o *CheckoutOrchestrator) Resume(ctx context.Context, pendingID, code, cardNumber string) ResumeOutcome {
	var collected events.Collector
	logger := o.logger.With(slog.String("pending_id", pendingID))

	out := ResumeOutcome{
		PendingID: pendingID,
		Verdict:   o.challenges.ValidateResponse(code, cardNumber),
	}
	if !out.Verdict.Accepted() {
		logger.Info("challenge response not accepted", slog.String("outcome", out.Verdict.Outcome.String()))
		out.Message = out.Verdict.Message
		collected.Record(event.ChallengeRejected{
			PendingID:  pendingID,
			Outcome:    out.Verdict.Outcome.String(),
			RejectedAt: time.Now().UTC(),
		})
		out.Events = collected.Drain()
		return out
	}

	pending, found, err := o.store.Take(ctx, pendingID)
	if err != nil {
		logger.Error("failed to take pending checkout", slog.Any("error", err))
		out.Message = MessageChallengeUnavailable
		return out
	}
	if !found {
		logger.Info("pending checkout not found")
		out.Message = MessageInvalidPendingID
		return out
	}
	out.Pending = &pending

	// The entry is gone once taken; settle even if the caller has gone away.
	txn := pending.Transaction()
	assessment := pending.Assessment()
	result, ok := o.settle(context.WithoutCancel(ctx), txn)
	if !ok {
		logger.Warn("challenged checkout failed", slog.String("message", result.Message))
		out.Message = result.Message
		collected.Record(paymentFailed(pendingID, txn, assessment, result.Message))
		out.Events = collected.Drain()
		return out
	}

	logger.Info("challenged checkout settled", slog.String("settlement_id", result.SettlementID))
	out.Success = true
	out.Message = out.Verdict.Message
	out.SettlementID = result.SettlementID
	out.PaymentMessage = result.Message
	collected.Record(paymentSettled(pendingID, txn, assessment, result, true))
	out.Events = collected.Drain()
	return out
}

// settle routes txn to its channel. The returned message is always set; ok is
// false for unknown methods, channel errors and declined charges.
func (o *CheckoutOrchestrator) settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, bool) {
	channel, found := o.router.Route(txn.PaymentMethod())
	if !found {
		return model.SettlementResult{Message: MessageUnsupportedMethod}, false
	}

	result, err := channel.Settle(ctx, txn)
	if err != nil {
		o.logger.Error("settlement channel error",
			slog.String("channel", channel.Name()),
			slog.Any("error", err),
		)
		return model.SettlementResult{Channel: channel.Name(), Message: MessageSettlementFailed}, false
	}
	if result.Message == "" && !result.Success {
		result.Message = MessageSettlementFailed
	}
	return result, result.Success
}

func paymentFailed(checkoutID string, txn model.Transaction, a model.RiskAssessment, msg string) event.PaymentFailed {
	return event.PaymentFailed{
		CheckoutID:    checkoutID,
		PaymentMethod: txn.PaymentMethod().String(),
		Message:       msg,
		RiskScore:     a.Score(),
		FailedAt:      time.Now().UTC(),
	}
}

func paymentSettled(
	checkoutID string,
	txn model.Transaction,
	a model.RiskAssessment,
	result model.SettlementResult,
	afterStepUp bool,
) event.PaymentSettled {
	return event.PaymentSettled{
		CheckoutID:   checkoutID,
		SettlementID: result.SettlementID,
		Channel:      result.Channel,
		Amount:       txn.Amount().String(),
		Currency:     txn.Currency(),
		RiskScore:    a.Score(),
		AfterStepUp:  afterStepUp,
		SettledAt:    time.Now().UTC(),
	}
}
