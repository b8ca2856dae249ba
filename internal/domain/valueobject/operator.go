package valueobject

// Operator is the comparison a risk rule applies. The set is closed; an
// unrecognised name maps to the zero Operator, which never matches.
type Operator struct {
	value string
}

var (
	OperatorGreaterThan    = Operator{value: "gt"}
	OperatorGreaterOrEqual = Operator{value: "gte"}
	OperatorLessThan       = Operator{value: "lt"}
	OperatorLessOrEqual    = Operator{value: "lte"}
	OperatorEqual          = Operator{value: "eq"}
	// OperatorFieldsDiffer compares two fields of the same transaction.
	OperatorFieldsDiffer = Operator{value: "not_eq"}
)

// OperatorFromString maps a rule-file operator name to an Operator. The second
// return value is false for unknown names.
func OperatorFromString(s string) (Operator, bool) {
	switch s {
	case "gt":
		return OperatorGreaterThan, true
	case "gte":
		return OperatorGreaterOrEqual, true
	case "lt":
		return OperatorLessThan, true
	case "lte":
		return OperatorLessOrEqual, true
	case "eq":
		return OperatorEqual, true
	case "not_eq":
		return OperatorFieldsDiffer, true
	default:
		return Operator{}, false
	}
}

func (o Operator) String() string {
	return o.value
}

// IsCrossField reports whether the operator compares two transaction fields
// rather than a field against a threshold.
func (o Operator) IsCrossField() bool {
	return o == OperatorFieldsDiffer
}

func (o Operator) IsZero() bool {
	return o.value == ""
}
