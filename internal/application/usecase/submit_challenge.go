package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// ErrMissingTransactionID is returned when a challenge response names no checkout.
var ErrMissingTransactionID = errors.New("transaction_id is required")

// SubmitChallenge is the use case for answering a step-up challenge.
type SubmitChallenge struct {
	orchestrator *service.CheckoutOrchestrator
	records      port.CheckoutRecordRepository
	publisher    port.EventPublisher
	metrics      port.CheckoutMetrics
	logger       *slog.Logger
}

// NewSubmitChallenge creates a new SubmitChallenge use case.
func NewSubmitChallenge(
	orchestrator *service.CheckoutOrchestrator,
	records port.CheckoutRecordRepository,
	publisher port.EventPublisher,
	metrics port.CheckoutMetrics,
	logger *slog.Logger,
) *SubmitChallenge {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &SubmitChallenge{
		orchestrator: orchestrator,
		records:      records,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute validates the challenge response and, when accepted, settles the
// suspended checkout.
func (uc *SubmitChallenge) Execute(ctx context.Context, req dto.ChallengeRequest) (dto.ChallengeResponse, error) {
	ctx, span := tracer.Start(ctx, "SubmitChallenge")
	defer span.End()

	if req.TransactionID == "" {
		span.RecordError(ErrMissingTransactionID)
		return dto.ChallengeResponse{}, ErrMissingTransactionID
	}

	out := uc.orchestrator.Resume(ctx, req.TransactionID, req.Code(), req.CardNumber)

	span.SetAttributes(
		attribute.String("checkout.pending_id", req.TransactionID),
		attribute.String("challenge.outcome", out.Verdict.Outcome.String()),
		attribute.Bool("checkout.success", out.Success),
	)
	uc.metrics.RecordChallenge(ctx, out.Verdict.Outcome)

	if out.Pending != nil {
		status := valueobject.CheckoutStatusFailed
		if out.Success {
			status = valueobject.CheckoutStatusSuccess
		}
		uc.metrics.RecordOutcome(ctx, status)
		if uc.records != nil {
			record := model.NewCheckoutRecord(
				out.Pending.Transaction(), out.Pending.Assessment(), status, out.SettlementID, out.Message)
			if err := uc.records.Save(ctx, record); err != nil {
				uc.logger.Error("failed to save checkout record",
					slog.String("pending_id", req.TransactionID),
					slog.Any("error", err),
				)
			}
		}
	}

	publish(ctx, uc.publisher, uc.logger, out.Events)

	return dto.FromResumeOutcome(out), nil
}
