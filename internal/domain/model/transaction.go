package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// Field names a rule may reference.
const (
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldPaymentMethod = "payment_method"
	FieldCardNumber    = "card_number"
	FieldCardCountry   = "card_country"
	FieldIPCountry     = "ip_country"
	FieldUserHistory   = "user_history"
)

var (
	ErrInvalidAmount      = errors.New("amount must be zero or positive")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrInvalidUserHistory = errors.New("user history must not be negative")

	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// TransactionParams carries the caller-supplied attributes of a checkout.
// Defaults for currency and ip country are applied by the caller.
type TransactionParams struct {
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	CardNumber    string
	CardCountry   string
	IPCountry     string
	UserHistory   int
}

// Transaction is an immutable checkout request.
type Transaction struct {
	amount        decimal.Decimal
	currency      string
	paymentMethod valueobject.PaymentMethod
	cardNumber    string
	cardCountry   string
	ipCountry     string
	userHistory   int
}

// NewTransaction validates params and builds a Transaction.
func NewTransaction(p TransactionParams) (Transaction, error) {
	if p.Amount.IsNegative() {
		return Transaction{}, ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if !currencyPattern.MatchString(currency) {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, p.Currency)
	}
	if p.UserHistory < 0 {
		return Transaction{}, ErrInvalidUserHistory
	}
	method, err := valueobject.NewPaymentMethod(p.PaymentMethod)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		amount:        p.Amount,
		currency:      currency,
		paymentMethod: method,
		cardNumber:    strings.TrimSpace(p.CardNumber),
		cardCountry:   strings.ToUpper(strings.TrimSpace(p.CardCountry)),
		ipCountry:     strings.ToUpper(strings.TrimSpace(p.IPCountry)),
		userHistory:   p.UserHistory,
	}, nil
}

func (t Transaction) Amount() decimal.Decimal                  { return t.amount }
func (t Transaction) Currency() string                         { return t.currency }
func (t Transaction) PaymentMethod() valueobject.PaymentMethod { return t.paymentMethod }
func (t Transaction) CardNumber() string                       { return t.cardNumber }
func (t Transaction) CardCountry() string                      { return t.cardCountry }
func (t Transaction) IPCountry() string                        { return t.ipCountry }
func (t Transaction) UserHistory() int                         { return t.userHistory }

// Field returns the named attribute. Optional attributes that were not
// supplied are reported as missing.
func (t Transaction) Field(name string) (FieldValue, bool) {
	switch name {
	case FieldAmount:
		return NumberValue(t.amount), true
	case FieldUserHistory:
		return NumberValue(decimal.NewFromInt(int64(t.userHistory))), true
	case FieldCurrency:
		return optionalText(t.currency)
	case FieldPaymentMethod:
		return optionalText(t.paymentMethod.String())
	case FieldCardNumber:
		return optionalText(t.cardNumber)
	case FieldCardCountry:
		return optionalText(t.cardCountry)
	case FieldIPCountry:
		return optionalText(t.ipCountry)
	default:
		return FieldValue{}, false
	}
}

// MaskedCardNumber returns the card number with all but the last four digits hidden.
func (t Transaction) MaskedCardNumber() string {
	n := len(t.cardNumber)
	if n <= 4 {
		return t.cardNumber
	}
	return strings.Repeat("*", n-4) + t.cardNumber[n-4:]
}

func optionalText(s string) (FieldValue, bool) {
	if s == "" {
		return FieldValue{}, false
	}
	return TextValue(s), true
}
