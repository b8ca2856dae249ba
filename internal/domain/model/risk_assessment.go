package model

import (
	"time"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// RiskAssessment is the immutable result of scoring one transaction.
type RiskAssessment struct {
	assessedAt     time.Time
	level          valueobject.RiskLevel
	narrative      string
	reasons        []string
	score          int
	stepUpRequired bool
}

// NewRiskAssessment builds an assessment. An empty narrative means none was
// produced.
func NewRiskAssessment(score int, level valueobject.RiskLevel, reasons []string, stepUp bool, narrative string) RiskAssessment {
	return RiskAssessment{
		score:          score,
		level:          level,
		reasons:        append([]string(nil), reasons...),
		stepUpRequired: stepUp,
		narrative:      narrative,
		assessedAt:     time.Now().UTC(),
	}
}

// ReconstructRiskAssessment rebuilds an assessment from stored data.
func ReconstructRiskAssessment(
	score int,
	level valueobject.RiskLevel,
	reasons []string,
	stepUp bool,
	narrative string,
	assessedAt time.Time,
) RiskAssessment {
	a := NewRiskAssessment(score, level, reasons, stepUp, narrative)
	a.assessedAt = assessedAt
	return a
}

func (a RiskAssessment) Score() int                   { return a.score }
func (a RiskAssessment) Level() valueobject.RiskLevel { return a.level }
func (a RiskAssessment) StepUpRequired() bool         { return a.stepUpRequired }
func (a RiskAssessment) Narrative() string            { return a.narrative }
func (a RiskAssessment) HasNarrative() bool           { return a.narrative != "" }
func (a RiskAssessment) AssessedAt() time.Time        { return a.assessedAt }

// Reasons returns a copy of the fired-rule messages in rule order.
func (a RiskAssessment) Reasons() []string {
	return append([]string(nil), a.reasons...)
}
