package valueobject

import "fmt"

// CheckoutStatus is the terminal or suspended state reported for a checkout.
type CheckoutStatus struct {
	value string
}

var (
	CheckoutStatusSuccess          = CheckoutStatus{value: "success"}
	CheckoutStatusPendingChallenge = CheckoutStatus{value: "pending_challenge"}
	CheckoutStatusFailed           = CheckoutStatus{value: "failed"}
)

// CheckoutStatusFromString reconstructs a CheckoutStatus from its string representation.
func CheckoutStatusFromString(s string) (CheckoutStatus, error) {
	switch s {
	case "success":
		return CheckoutStatusSuccess, nil
	case "pending_challenge":
		return CheckoutStatusPendingChallenge, nil
	case "failed":
		return CheckoutStatusFailed, nil
	default:
		return CheckoutStatus{}, fmt.Errorf("invalid checkout status: %s", s)
	}
}

func (s CheckoutStatus) String() string {
	return s.value
}

// IsTerminal reports whether no further step is expected for the checkout.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSuccess || s == CheckoutStatusFailed
}

func (s CheckoutStatus) Equal(other CheckoutStatus) bool {
	return s.value == other.value
}
