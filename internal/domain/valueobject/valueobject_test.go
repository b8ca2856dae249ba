package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"LOW", valueobject.RiskLevelLow, false},
		{"MEDIUM", valueobject.RiskLevelMedium, false},
		{"HIGH", valueobject.RiskLevelHigh, false},
		{"CRITICAL", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, result.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
		})
	}
}

func TestPaymentMethod_New(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		pm, err := valueobject.NewPaymentMethod("  Credit_Card ")
		require.NoError(t, err)
		assert.True(t, pm.Equal(valueobject.PaymentMethodCreditCard))
	})

	t.Run("accepts unknown channels", func(t *testing.T) {
		pm, err := valueobject.NewPaymentMethod("bitcoin")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin", pm.String())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := valueobject.NewPaymentMethod("  ")
		require.Error(t, err)
	})
}

func TestCheckoutStatus(t *testing.T) {
	assert.True(t, valueobject.CheckoutStatusSuccess.IsTerminal())
	assert.True(t, valueobject.CheckoutStatusFailed.IsTerminal())
	assert.False(t, valueobject.CheckoutStatusPendingChallenge.IsTerminal())

	s, err := valueobject.CheckoutStatusFromString("pending_challenge")
	require.NoError(t, err)
	assert.True(t, s.Equal(valueobject.CheckoutStatusPendingChallenge))

	_, err = valueobject.CheckoutStatusFromString("approved")
	require.Error(t, err)
}

func TestOperatorFromString(t *testing.T) {
	tests := []struct {
		input      string
		expected   valueobject.Operator
		known      bool
		crossField bool
	}{
		{"gt", valueobject.OperatorGreaterThan, true, false},
		{"gte", valueobject.OperatorGreaterOrEqual, true, false},
		{"lt", valueobject.OperatorLessThan, true, false},
		{"lte", valueobject.OperatorLessOrEqual, true, false},
		{"eq", valueobject.OperatorEqual, true, false},
		{"not_eq", valueobject.OperatorFieldsDiffer, true, true},
		{"between", valueobject.Operator{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, ok := valueobject.OperatorFromString(tt.input)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.expected, op)
			assert.Equal(t, tt.crossField, op.IsCrossField())
			assert.Equal(t, !tt.known, op.IsZero())
		})
	}
}
