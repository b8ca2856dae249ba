package model

import "github.com/shopspring/decimal"

// FieldKind distinguishes numeric transaction attributes from textual ones.
type FieldKind int

const (
	FieldKindNone FieldKind = iota
	FieldKindNumber
	FieldKindText
)

// FieldValue is a transaction attribute or a rule threshold as seen by the
// rule engine.
type FieldValue struct {
	text   string
	number decimal.Decimal
	kind   FieldKind
}

// NumberValue wraps a numeric value.
func NumberValue(d decimal.Decimal) FieldValue {
	return FieldValue{kind: FieldKindNumber, number: d}
}

// TextValue wraps a textual value.
func TextValue(s string) FieldValue {
	return FieldValue{kind: FieldKindText, text: s}
}

func (v FieldValue) Kind() FieldKind         { return v.kind }
func (v FieldValue) Number() decimal.Decimal { return v.number }
func (v FieldValue) Text() string            { return v.text }
func (v FieldValue) IsZero() bool            { return v.kind == FieldKindNone }

// Compare orders v against other. ok is false when the kinds differ or
// either side is unset.
func (v FieldValue) Compare(other FieldValue) (cmp int, ok bool) {
	if v.kind == FieldKindNone || v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case FieldKindNumber:
		return v.number.Cmp(other.number), true
	case FieldKindText:
		switch {
		case v.text < other.text:
			return -1, true
		case v.text > other.text:
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

// Equal reports whether both values have the same kind and content.
func (v FieldValue) Equal(other FieldValue) bool {
	c, ok := v.Compare(other)
	return ok && c == 0
}

func (v FieldValue) String() string {
	switch v.kind {
	case FieldKindNumber:
		return v.number.String()
	case FieldKindText:
		return v.text
	default:
		return ""
	}
}
