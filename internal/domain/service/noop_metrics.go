package service

import (
	"context"

	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

var _ port.CheckoutMetrics = NoopMetrics{}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) RecordAssessment(context.Context, valueobject.RiskLevel, int)  {}
func (NoopMetrics) RecordOutcome(context.Context, valueobject.CheckoutStatus)     {}
func (NoopMetrics) RecordChallenge(context.Context, valueobject.ChallengeOutcome) {}
func (NoopMetrics) RecordNarrative(context.Context, string)                       {}
