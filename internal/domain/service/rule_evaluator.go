package service

import (
	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// RuleFires reports whether rule matches txn. A rule whose field is missing,
// whose operand kinds differ, or whose operator is unknown does not fire.
func RuleFires(rule model.RiskRule, txn model.Transaction) bool {
	switch rule.Operator {
	case valueobject.OperatorFieldsDiffer:
		if len(rule.Fields) != 2 {
			return false
		}
		left, ok := txn.Field(rule.Fields[0])
		if !ok {
			return false
		}
		right, ok := txn.Field(rule.Fields[1])
		if !ok {
			return false
		}
		cmp, ok := left.Compare(right)
		return ok && cmp != 0

	case valueobject.OperatorGreaterThan,
		valueobject.OperatorGreaterOrEqual,
		valueobject.OperatorLessThan,
		valueobject.OperatorLessOrEqual,
		valueobject.OperatorEqual:
		value, ok := txn.Field(rule.Field)
		if !ok {
			return false
		}
		cmp, ok := value.Compare(rule.Threshold)
		if !ok {
			return false
		}
		return compareMatches(rule.Operator, cmp)

	default:
		return false
	}
}

func compareMatches(op valueobject.Operator, cmp int) bool {
	switch op {
	case valueobject.OperatorGreaterThan:
		return cmp > 0
	case valueobject.OperatorGreaterOrEqual:
		return cmp >= 0
	case valueobject.OperatorLessThan:
		return cmp < 0
	case valueobject.OperatorLessOrEqual:
		return cmp <= 0
	case valueobject.OperatorEqual:
		return cmp == 0
	default:
		return false
	}
}
