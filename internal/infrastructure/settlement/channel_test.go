package settlement_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/infrastructure/settlement"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestChannels_Settle(t *testing.T) {
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount:        decimal.NewFromInt(88),
		Currency:      "CNY",
		PaymentMethod: "credit_card",
		CardNumber:    "4111111111111111",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		pattern string
		message string
	}{
		{"credit_card", `^CC_\d{6}$`, "credit card payment succeeded"},
		{"alipay", `^ALI_\d{6}$`, "Alipay payment succeeded"},
		{"wechat_pay", `^WX_\d{6}$`, "WeChat Pay payment succeeded"},
	}

	channels := settlement.All(testLogger())
	require.Len(t, channels, len(tests))

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := channels[i]
			assert.Equal(t, tt.name, ch.Name())

			result, err := ch.Settle(context.Background(), txn)
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, tt.name, result.Channel)
			assert.Equal(t, tt.message, result.Message)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), result.SettlementID)
		})
	}
}

func TestChannels_CancelledContext(t *testing.T) {
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount: decimal.NewFromInt(1), Currency: "CNY", PaymentMethod: "alipay",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = settlement.NewAlipayChannel(testLogger()).Settle(ctx, txn)
	assert.ErrorIs(t, err, context.Canceled)
}
