package settlement

import (
	"context"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

var _ port.SettlementChannel = (*AlipayChannel)(nil)

// AlipayChannel settles Alipay wallet payments.
type AlipayChannel struct {
	processor mockProcessor
}

func NewAlipayChannel(logger *slog.Logger) *AlipayChannel {
	return &AlipayChannel{processor: mockProcessor{
		logger:  logger,
		method:  valueobject.PaymentMethodAlipay.String(),
		prefix:  "ALI_",
		message: "Alipay payment succeeded",
	}}
}

func (c *AlipayChannel) Name() string { return c.processor.method }

func (c *AlipayChannel) Settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error) {
	return c.processor.settle(ctx, txn)
}
