package settlement

import (
	"context"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

var _ port.SettlementChannel = (*WeChatPayChannel)(nil)

// WeChatPayChannel settles WeChat Pay wallet payments.
type WeChatPayChannel struct {
	processor mockProcessor
}

func NewWeChatPayChannel(logger *slog.Logger) *WeChatPayChannel {
	return &WeChatPayChannel{processor: mockProcessor{
		logger:  logger,
		method:  valueobject.PaymentMethodWeChatPay.String(),
		prefix:  "WX_",
		message: "WeChat Pay payment succeeded",
	}}
}

func (c *WeChatPayChannel) Name() string { return c.processor.method }

func (c *WeChatPayChannel) Settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error) {
	return c.processor.settle(ctx, txn)
}
