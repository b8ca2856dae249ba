package valueobject

import (
	"fmt"
	"strings"
)

// PaymentMethod identifies the settlement channel a shopper selected. The set is
// open: any non-empty token is accepted here and the settlement router decides
// whether a channel exists for it.
type PaymentMethod struct {
	value string
}

var (
	PaymentMethodCreditCard = PaymentMethod{value: "credit_card"}
	PaymentMethodAlipay     = PaymentMethod{value: "alipay"}
	PaymentMethodWeChatPay  = PaymentMethod{value: "wechat_pay"}
)

// NewPaymentMethod normalizes and validates a payment method token.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return PaymentMethod{}, fmt.Errorf("payment method is required")
	}
	return PaymentMethod{value: v}, nil
}

func (p PaymentMethod) String() string {
	return p.value
}

// IsZero returns true if the PaymentMethod has not been set.
func (p PaymentMethod) IsZero() bool {
	return p.value == ""
}

// Equal checks equality with another PaymentMethod.
func (p PaymentMethod) Equal(other PaymentMethod) bool {
	return p.value == other.value
}
