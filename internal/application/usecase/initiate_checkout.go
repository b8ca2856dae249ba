package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/smart-checkout/internal/application/dto"
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/pkg/events"
)

var tracer = otel.Tracer("github.com/bibbank/smart-checkout/internal/application/usecase")

// ErrMissingAmount is returned when a checkout request carries no amount.
var ErrMissingAmount = errors.New("amount is required")

// TransactionDefaults fills attributes a checkout request may omit.
type TransactionDefaults struct {
	Currency  string
	IPCountry string
}

// InitiateCheckout is the use case for scoring and routing a new checkout.
type InitiateCheckout struct {
	orchestrator *service.CheckoutOrchestrator
	records      port.CheckoutRecordRepository
	publisher    port.EventPublisher
	metrics      port.CheckoutMetrics
	logger       *slog.Logger
	defaults     TransactionDefaults
}

// NewInitiateCheckout creates a new InitiateCheckout use case. records may be
// nil when no audit store is configured.
func NewInitiateCheckout(
	orchestrator *service.CheckoutOrchestrator,
	records port.CheckoutRecordRepository,
	publisher port.EventPublisher,
	metrics port.CheckoutMetrics,
	defaults TransactionDefaults,
	logger *slog.Logger,
) *InitiateCheckout {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &InitiateCheckout{
		orchestrator: orchestrator,
		records:      records,
		publisher:    publisher,
		metrics:      metrics,
		defaults:     defaults,
		logger:       logger,
	}
}

// Execute validates the request and runs the checkout. The returned error is
// non-nil only for invalid requests; every business failure is a failed
// response.
func (uc *InitiateCheckout) Execute(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	ctx, span := tracer.Start(ctx, "InitiateCheckout")
	defer span.End()

	txn, err := uc.toTransaction(req)
	if err != nil {
		span.RecordError(err)
		return dto.CheckoutResponse{}, fmt.Errorf("invalid checkout request: %w", err)
	}

	out := uc.orchestrator.Initiate(ctx, txn)

	span.SetAttributes(
		attribute.String("checkout.id", out.CheckoutID),
		attribute.String("checkout.status", out.Status.String()),
		attribute.Int("checkout.risk_score", out.Assessment.Score()),
	)

	uc.metrics.RecordAssessment(ctx, out.Assessment.Level(), out.Assessment.Score())
	uc.metrics.RecordOutcome(ctx, out.Status)

	uc.audit(ctx, model.NewCheckoutRecord(txn, out.Assessment, out.Status, out.TransactionID, out.Message))
	publish(ctx, uc.publisher, uc.logger, out.Events)

	return dto.FromCheckoutOutcome(out), nil
}

func (uc *InitiateCheckout) toTransaction(req dto.CheckoutRequest) (model.Transaction, error) {
	if req.Amount == nil {
		return model.Transaction{}, ErrMissingAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = uc.defaults.Currency
	}
	ipCountry := req.IPCountry
	if ipCountry == "" {
		ipCountry = uc.defaults.IPCountry
	}
	return model.NewTransaction(model.TransactionParams{
		Amount:        *req.Amount,
		Currency:      currency,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		CardCountry:   req.CardCountry,
		IPCountry:     ipCountry,
		UserHistory:   req.UserHistory,
	})
}

func (uc *InitiateCheckout) audit(ctx context.Context, record model.CheckoutRecord) {
	if uc.records == nil {
		return
	}
	if err := uc.records.Save(ctx, record); err != nil {
		uc.logger.Error("failed to save checkout record",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
	}
}

// publish sends events after the outcome is decided. A publish failure is
// logged; the outcome already happened and is still reported.
func publish(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, evts []events.DomainEvent) {
	if publisher == nil || len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Error("failed to publish checkout events",
			slog.Int("count", len(evts)),
			slog.Any("error", err),
		)
	}
}
