package metrics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
	"github.com/bibbank/smart-checkout/internal/infrastructure/metrics"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func TestCheckoutMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	pending := 2
	m, err := metrics.NewCheckoutMetrics(provider.Meter(metrics.MeterName), func() int { return pending })
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAssessment(ctx, valueobject.RiskLevelMedium, 60)
	m.RecordAssessment(ctx, valueobject.RiskLevelLow, 0)
	m.RecordOutcome(ctx, valueobject.CheckoutStatusPendingChallenge)
	m.RecordChallenge(ctx, valueobject.ChallengeRejected)
	m.RecordChallenge(ctx, valueobject.ChallengeAccepted)
	m.RecordOutcome(ctx, valueobject.CheckoutStatusSuccess)
	m.RecordNarrative(ctx, "fallback")

	data := collect(t, reader)

	assert.Equal(t, int64(1), sumFor(t, data["checkout_risk_assessments"], "level", "MEDIUM"))
	assert.Equal(t, int64(1), sumFor(t, data["checkout_risk_assessments"], "level", "LOW"))
	assert.Equal(t, int64(1), sumFor(t, data["checkout_outcomes"], "status", "success"))
	assert.Equal(t, int64(1), sumFor(t, data["checkout_challenge_responses"], "outcome", "rejected"))
	assert.Equal(t, int64(1), sumFor(t, data["checkout_narratives"], "source", "fallback"))

	hist, ok := data["checkout_risk_score"].(metricdata.Histogram[int64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	gauge, ok := data["checkout_pending_challenges"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2), gauge.DataPoints[0].Value)
}

func TestCheckoutMetrics_WithoutPendingGauge(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	_, err := metrics.NewCheckoutMetrics(provider.Meter(metrics.MeterName), nil)
	require.NoError(t, err)

	_, ok := collect(t, reader)["checkout_pending_challenges"]
	assert.False(t, ok)
}
