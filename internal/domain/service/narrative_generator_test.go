package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

type mockNarrativeClient struct {
	explainFunc func(ctx context.Context, txn model.Transaction, score int, reasons []string) (string, error)
}

func (m *mockNarrativeClient) Explain(ctx context.Context, txn model.Transaction, score int, reasons []string) (string, error) {
	return m.explainFunc(ctx, txn, score, reasons)
}

func (m *mockNarrativeClient) Model() string   { return "test-model" }
func (m *mockNarrativeClient) BaseURL() string { return "http://narrative.test" }

type recordingMetrics struct {
	service.NoopMetrics
	mu      sync.Mutex
	sources []string
}

func (r *recordingMetrics) RecordNarrative(_ context.Context, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func TestFallbackNarrative(t *testing.T) {
	assert.Equal(t,
		"Risk score for this transaction is 60; main risk factors: large transaction, new user. Recommendation: enhanced monitoring.",
		service.FallbackNarrative(60, []string{"large transaction", "new user"}))
	assert.Equal(t,
		"Risk score for this transaction is 50; main risk factors: none. Recommendation: normal processing.",
		service.FallbackNarrative(50, nil))
}

func TestNarrativeGenerator_Explain(t *testing.T) {
	ctx := context.Background()
	reasons := []string{"new user"}

	t.Run("uses delegate text", func(t *testing.T) {
		metrics := &recordingMetrics{}
		client := &mockNarrativeClient{explainFunc: func(context.Context, model.Transaction, int, []string) (string, error) {
			return "  delegate says hi  ", nil
		}}
		g := service.NewNarrativeGenerator(client, time.Second, metrics, testLogger())

		assert.Equal(t, "delegate says hi", g.Explain(ctx, newTxn(t), 45, reasons))
		assert.Equal(t, []string{service.NarrativeSourceDelegate}, metrics.sources)
	})

	t.Run("falls back without delegate", func(t *testing.T) {
		metrics := &recordingMetrics{}
		g := service.NewNarrativeGenerator(nil, 0, metrics, testLogger())

		assert.Equal(t, service.FallbackNarrative(45, reasons), g.Explain(ctx, newTxn(t), 45, reasons))
		assert.Equal(t, []string{service.NarrativeSourceFallback}, metrics.sources)
	})

	t.Run("falls back on delegate error", func(t *testing.T) {
		client := &mockNarrativeClient{explainFunc: func(context.Context, model.Transaction, int, []string) (string, error) {
			return "", errors.New("upstream 500")
		}}
		g := service.NewNarrativeGenerator(client, time.Second, nil, testLogger())

		assert.Equal(t, service.FallbackNarrative(45, reasons), g.Explain(ctx, newTxn(t), 45, reasons))
	})

	t.Run("falls back on empty delegate text", func(t *testing.T) {
		client := &mockNarrativeClient{explainFunc: func(context.Context, model.Transaction, int, []string) (string, error) {
			return "   ", nil
		}}
		g := service.NewNarrativeGenerator(client, time.Second, nil, testLogger())

		assert.Equal(t, service.FallbackNarrative(45, reasons), g.Explain(ctx, newTxn(t), 45, reasons))
	})

	t.Run("falls back when the delegate exceeds the timeout", func(t *testing.T) {
		client := &mockNarrativeClient{explainFunc: func(ctx context.Context, _ model.Transaction, _ int, _ []string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}}
		g := service.NewNarrativeGenerator(client, 20*time.Millisecond, nil, testLogger())

		start := time.Now()
		text := g.Explain(ctx, newTxn(t), 45, reasons)

		assert.Equal(t, service.FallbackNarrative(45, reasons), text)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestNarrativeGenerator_Status(t *testing.T) {
	assert.Equal(t, service.NarrativeStatus{}, service.NewNarrativeGenerator(nil, 0, nil, testLogger()).Status())

	client := &mockNarrativeClient{}
	status := service.NewNarrativeGenerator(client, 0, nil, testLogger()).Status()
	assert.True(t, status.Configured)
	assert.Equal(t, "test-model", status.Model)
	assert.Equal(t, "http://narrative.test", status.BaseURL)
}

func TestRiskEngine_WithNarrativeGenerator(t *testing.T) {
	g := service.NewNarrativeGenerator(nil, 0, nil, testLogger())
	engine := service.NewRiskEngine(g, testLogger())

	txn := newTxn(t, withAmount(6000), withHistory(0))
	a := engine.Assess(context.Background(), txn, standardRules())

	assert.Equal(t, 35, a.Score())
	assert.True(t, a.Level().Equal(valueobject.RiskLevelMedium))
	assert.Equal(t, service.FallbackNarrative(35, []string{"large transaction", "new user"}), a.Narrative())
}
