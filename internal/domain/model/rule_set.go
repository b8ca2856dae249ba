package model

import (
	"errors"
	"fmt"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// RiskRule is one declarative scoring rule. Single-field rules compare Field
// against Threshold; cross-field rules compare the two entries of Fields.
// A firing rule contributes Score and, when Reason is set, one reason;
// Validate requires a Reason so loaded rule files always explain their score.
type RiskRule struct {
	Name        string
	Description string
	Operator    valueobject.Operator
	Field       string
	Fields      []string
	Threshold   FieldValue
	Score       int
	Reason      string
}

// RuleSet is the ordered rule list plus the thresholds the engine applies to
// the summed score.
type RuleSet struct {
	Rules              []RiskRule
	MediumThreshold    int
	HighThreshold      int
	StepUpThreshold    int
	NarrativeThreshold int
	MaxScore           int
}

// LevelFor maps a capped score to a risk level. Thresholds are exclusive:
// a score equal to the high threshold is MEDIUM.
func (rs RuleSet) LevelFor(score int) valueobject.RiskLevel {
	switch {
	case score > rs.HighThreshold:
		return valueobject.RiskLevelHigh
	case score > rs.MediumThreshold:
		return valueobject.RiskLevelMedium
	default:
		return valueobject.RiskLevelLow
	}
}

// Validate checks the rule set for configuration mistakes. It is meant to be
// run when a rule file is loaded; the engine never calls it.
func (rs RuleSet) Validate() error {
	var errs []error
	if rs.MediumThreshold >= rs.HighThreshold {
		errs = append(errs, fmt.Errorf("medium threshold %d must be below high threshold %d",
			rs.MediumThreshold, rs.HighThreshold))
	}
	if rs.MaxScore < 0 {
		errs = append(errs, fmt.Errorf("max score must not be negative, got %d", rs.MaxScore))
	}
	seen := make(map[string]struct{}, len(rs.Rules))
	for i, r := range rs.Rules {
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("rule %d: name is required", i))
			continue
		}
		if _, dup := seen[r.Name]; dup {
			errs = append(errs, fmt.Errorf("rule %q: duplicate name", r.Name))
		}
		seen[r.Name] = struct{}{}
		if r.Reason == "" {
			errs = append(errs, fmt.Errorf("rule %q: message is required", r.Name))
		}
		if r.Operator.IsZero() {
			errs = append(errs, fmt.Errorf("rule %q: unknown operator", r.Name))
			continue
		}
		if r.Operator.IsCrossField() {
			if len(r.Fields) != 2 {
				errs = append(errs, fmt.Errorf("rule %q: cross-field rule needs exactly 2 fields, got %d",
					r.Name, len(r.Fields)))
			}
			continue
		}
		if r.Field == "" {
			errs = append(errs, fmt.Errorf("rule %q: field is required", r.Name))
		}
		if r.Threshold.IsZero() {
			errs = append(errs, fmt.Errorf("rule %q: threshold is required", r.Name))
		}
	}
	return errors.Join(errs...)
}
