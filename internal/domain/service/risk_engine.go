package service

import (
	"context"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/model"
)

// Narrator turns a score and its reasons into explanatory text. It never fails.
type Narrator interface {
	Explain(ctx context.Context, txn model.Transaction, score int, reasons []string) string
}

// RiskEngine scores transactions against a RuleSet.
type RiskEngine struct {
	narrator Narrator
	logger   *slog.Logger
}

// NewRiskEngine creates a RiskEngine. narrator may be nil, in which case no
// narrative is ever attached.
func NewRiskEngine(narrator Narrator, logger *slog.Logger) *RiskEngine {
	return &RiskEngine{
		narrator: narrator,
		logger:   logger,
	}
}

// Score sums the contributions of every firing rule and clamps the total to
// [0, MaxScore]. Reasons are returned in rule order.
func (e *RiskEngine) Score(txn model.Transaction, rules model.RuleSet) (int, []string) {
	total := 0
	reasons := make([]string, 0, len(rules.Rules))
	for _, rule := range rules.Rules {
		if !RuleFires(rule, txn) {
			continue
		}
		total += rule.Score
		if rule.Reason != "" {
			reasons = append(reasons, rule.Reason)
		}
	}

	if total > rules.MaxScore {
		total = rules.MaxScore
	}
	if total < 0 {
		total = 0
	}
	return total, reasons
}

// Assess scores txn and derives level, step-up requirement and, above the
// narrative threshold, an explanation.
func (e *RiskEngine) Assess(ctx context.Context, txn model.Transaction, rules model.RuleSet) model.RiskAssessment {
	score, reasons := e.Score(txn, rules)
	level := rules.LevelFor(score)
	stepUp := score > rules.StepUpThreshold

	var narrative string
	if score > rules.NarrativeThreshold && e.narrator != nil {
		narrative = e.narrator.Explain(ctx, txn, score, reasons)
	}

	e.logger.Debug("transaction scored",
		slog.Int("risk_score", score),
		slog.String("risk_level", level.String()),
		slog.Bool("step_up_required", stepUp),
		slog.Int("reasons", len(reasons)),
	)

	return model.NewRiskAssessment(score, level, reasons, stepUp, narrative)
}
