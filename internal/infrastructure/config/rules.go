package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

//go:embed default_rules.yaml
var defaultRules []byte

type rulesDocument struct {
	RiskRules  []ruleDocument `yaml:"risk_rules"`
	RiskLevels struct {
		High   *int `yaml:"high"`
		Medium *int `yaml:"medium"`
	} `yaml:"risk_levels"`
	Thresholds struct {
		StepUp     *int `yaml:"requires_step_up"`
		ThreeDS    *int `yaml:"requires_3ds"`
		Narrative  *int `yaml:"requires_narrative"`
		LLMInsight *int `yaml:"requires_llm_insight"`
	} `yaml:"thresholds"`
	MaxScore *int `yaml:"max_score"`
}

type ruleDocument struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Field       string    `yaml:"field"`
	Fields      []string  `yaml:"fields"`
	Operator    string    `yaml:"operator"`
	Threshold   yaml.Node `yaml:"threshold"`
	Score       int       `yaml:"score"`
	Message     string    `yaml:"message"`
}

// DefaultRuleSet returns the built-in rule set.
func DefaultRuleSet() (model.RuleSet, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads a rule file. An empty path selects the built-in rules.
func LoadRules(path string) (model.RuleSet, error) {
	if path == "" {
		return DefaultRuleSet()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RuleSet{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return model.RuleSet{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rs, nil
}

// ParseRules decodes a YAML or JSON rule document. Missing thresholds take
// their built-in defaults. Unknown operators are kept as the zero Operator so
// that RuleSet.Validate can report them.
func ParseRules(data []byte) (model.RuleSet, error) {
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.RuleSet{}, fmt.Errorf("failed to decode rules: %w", err)
	}

	rs := model.RuleSet{
		MediumThreshold:    pick(30, doc.RiskLevels.Medium),
		HighThreshold:      pick(60, doc.RiskLevels.High),
		StepUpThreshold:    pick(40, doc.Thresholds.ThreeDS, doc.Thresholds.StepUp),
		NarrativeThreshold: pick(30, doc.Thresholds.LLMInsight, doc.Thresholds.Narrative),
		MaxScore:           pick(100, doc.MaxScore),
		Rules:              make([]model.RiskRule, 0, len(doc.RiskRules)),
	}

	for i, rd := range doc.RiskRules {
		threshold, err := thresholdValue(&rd.Threshold)
		if err != nil {
			return model.RuleSet{}, fmt.Errorf("rule %d (%s): %w", i, rd.Name, err)
		}
		op, _ := valueobject.OperatorFromString(rd.Operator)
		rs.Rules = append(rs.Rules, model.RiskRule{
			Name:        rd.Name,
			Description: rd.Description,
			Operator:    op,
			Field:       rd.Field,
			Fields:      rd.Fields,
			Threshold:   threshold,
			Score:       rd.Score,
			Reason:      rd.Message,
		})
	}
	return rs, nil
}

func thresholdValue(node *yaml.Node) (model.FieldValue, error) {
	if node.Kind == 0 {
		return model.FieldValue{}, nil
	}
	if node.Kind != yaml.ScalarNode {
		return model.FieldValue{}, fmt.Errorf("threshold must be a scalar")
	}
	switch node.ShortTag() {
	case "!!null":
		return model.FieldValue{}, nil
	case "!!int", "!!float":
		d, err := decimal.NewFromString(node.Value)
		if err != nil {
			return model.FieldValue{}, fmt.Errorf("invalid numeric threshold %q: %w", node.Value, err)
		}
		return model.NumberValue(d), nil
	default:
		return model.TextValue(node.Value), nil
	}
}

// pick returns the last non-nil candidate, or def.
func pick(def int, candidates ...*int) int {
	v := def
	for _, c := range candidates {
		if c != nil {
			v = *c
		}
	}
	return v
}
