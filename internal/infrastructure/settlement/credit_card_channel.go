package settlement

import (
	"context"
	"log/slog"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

var _ port.SettlementChannel = (*CreditCardChannel)(nil)

// CreditCardChannel settles card payments.
type CreditCardChannel struct {
	processor mockProcessor
}

func NewCreditCardChannel(logger *slog.Logger) *CreditCardChannel {
	return &CreditCardChannel{processor: mockProcessor{
		logger:  logger,
		method:  valueobject.PaymentMethodCreditCard.String(),
		prefix:  "CC_",
		message: "credit card payment succeeded",
	}}
}

func (c *CreditCardChannel) Name() string { return c.processor.method }

func (c *CreditCardChannel) Settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error) {
	// Stub: a real integration would call the card acquirer with the masked PAN.
	c.processor.logger.Debug("charging card", slog.String("card", txn.MaskedCardNumber()))
	return c.processor.settle(ctx, txn)
}
