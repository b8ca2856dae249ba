package valueobject

import "fmt"

// RiskLevel is an immutable value object representing the risk classification
// of a checkout.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "LOW"}
	RiskLevelMedium = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh   = RiskLevel{value: "HIGH"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
