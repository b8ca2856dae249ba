package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
)

// DefaultNarrativeTimeout bounds a single delegate call.
const DefaultNarrativeTimeout = 5 * time.Second

const (
	NarrativeSourceDelegate = "delegate"
	NarrativeSourceFallback = "fallback"
)

// NarrativeStatus describes the configured narrative delegate.
type NarrativeStatus struct {
	Model      string
	BaseURL    string
	Configured bool
}

// NarrativeGenerator explains risk scores. It prefers the external delegate
// and falls back to a fixed template whenever the delegate is missing, slow,
// or fails.
type NarrativeGenerator struct {
	client  port.NarrativeClient
	metrics port.CheckoutMetrics
	logger  *slog.Logger
	timeout time.Duration
}

// NewNarrativeGenerator creates a NarrativeGenerator. client and metrics may
// be nil; a non-positive timeout selects DefaultNarrativeTimeout.
func NewNarrativeGenerator(
	client port.NarrativeClient,
	timeout time.Duration,
	metrics port.CheckoutMetrics,
	logger *slog.Logger,
) *NarrativeGenerator {
	if timeout <= 0 {
		timeout = DefaultNarrativeTimeout
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &NarrativeGenerator{
		client:  client,
		metrics: metrics,
		logger:  logger,
		timeout: timeout,
	}
}

// Explain returns non-empty explanatory text for the score and reasons.
func (g *NarrativeGenerator) Explain(ctx context.Context, txn model.Transaction, score int, reasons []string) string {
	if g.client == nil {
		g.metrics.RecordNarrative(ctx, NarrativeSourceFallback)
		return FallbackNarrative(score, reasons)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.Explain(callCtx, txn, score, reasons)
	if err != nil {
		g.logger.Warn("narrative delegate failed, using fallback",
			slog.String("model", g.client.Model()),
			slog.Any("error", err),
		)
		g.metrics.RecordNarrative(ctx, NarrativeSourceFallback)
		return FallbackNarrative(score, reasons)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("narrative delegate returned empty text, using fallback",
			slog.String("model", g.client.Model()),
		)
		g.metrics.RecordNarrative(ctx, NarrativeSourceFallback)
		return FallbackNarrative(score, reasons)
	}

	g.metrics.RecordNarrative(ctx, NarrativeSourceDelegate)
	return text
}

// Status reports whether a delegate is configured and which one.
func (g *NarrativeGenerator) Status() NarrativeStatus {
	if g.client == nil {
		return NarrativeStatus{}
	}
	return NarrativeStatus{
		Configured: true,
		Model:      g.client.Model(),
		BaseURL:    g.client.BaseURL(),
	}
}

// FallbackNarrative is the deterministic explanation used without a delegate.
func FallbackNarrative(score int, reasons []string) string {
	factors := "none"
	if len(reasons) > 0 {
		factors = strings.Join(reasons, ", ")
	}
	recommendation := "normal processing"
	if score > 50 {
		recommendation = "enhanced monitoring"
	}
	return fmt.Sprintf("Risk score for this transaction is %d; main risk factors: %s. Recommendation: %s.",
		score, factors, recommendation)
}
