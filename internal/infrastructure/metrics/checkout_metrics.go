package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// MeterName scopes every checkout instrument.
const MeterName = "github.com/bibbank/smart-checkout"

var _ port.CheckoutMetrics = (*CheckoutMetrics)(nil)

// CheckoutMetrics records checkout activity on OpenTelemetry instruments.
type CheckoutMetrics struct {
	assessments metric.Int64Counter
	scores      metric.Int64Histogram
	outcomes    metric.Int64Counter
	challenges  metric.Int64Counter
	narratives  metric.Int64Counter
}

// NewCheckoutMetrics creates the instruments on meter. pending, when non-nil,
// backs a gauge of transactions awaiting a challenge response.
func NewCheckoutMetrics(meter metric.Meter, pending func() int) (*CheckoutMetrics, error) {
	m := &CheckoutMetrics{}
	var err error

	if m.assessments, err = meter.Int64Counter("checkout_risk_assessments",
		metric.WithDescription("Risk assessments by level.")); err != nil {
		return nil, fmt.Errorf("failed to create assessments counter: %w", err)
	}
	if m.scores, err = meter.Int64Histogram("checkout_risk_score",
		metric.WithDescription("Distribution of risk scores."),
		metric.WithExplicitBucketBoundaries(0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100)); err != nil {
		return nil, fmt.Errorf("failed to create score histogram: %w", err)
	}
	if m.outcomes, err = meter.Int64Counter("checkout_outcomes",
		metric.WithDescription("Checkout outcomes by status.")); err != nil {
		return nil, fmt.Errorf("failed to create outcomes counter: %w", err)
	}
	if m.challenges, err = meter.Int64Counter("checkout_challenge_responses",
		metric.WithDescription("Challenge responses by outcome.")); err != nil {
		return nil, fmt.Errorf("failed to create challenges counter: %w", err)
	}
	if m.narratives, err = meter.Int64Counter("checkout_narratives",
		metric.WithDescription("Narratives produced by source.")); err != nil {
		return nil, fmt.Errorf("failed to create narratives counter: %w", err)
	}

	if pending != nil {
		_, err = meter.Int64ObservableGauge("checkout_pending_challenges",
			metric.WithDescription("Transactions waiting for a challenge response."),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(pending()))
				return nil
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to create pending gauge: %w", err)
		}
	}

	return m, nil
}

func (m *CheckoutMetrics) RecordAssessment(ctx context.Context, level valueobject.RiskLevel, score int) {
	attrs := metric.WithAttributes(attribute.String("level", level.String()))
	m.assessments.Add(ctx, 1, attrs)
	m.scores.Record(ctx, int64(score), attrs)
}

func (m *CheckoutMetrics) RecordOutcome(ctx context.Context, status valueobject.CheckoutStatus) {
	m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status.String())))
}

func (m *CheckoutMetrics) RecordChallenge(ctx context.Context, outcome valueobject.ChallengeOutcome) {
	m.challenges.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
}

func (m *CheckoutMetrics) RecordNarrative(ctx context.Context, source string) {
	m.narratives.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}
