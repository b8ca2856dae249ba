package service

import (
	"sort"

	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// SettlementRouter maps payment methods to settlement channels.
type SettlementRouter struct {
	channels map[string]port.SettlementChannel
}

// NewSettlementRouter registers channels by name. A later channel with the
// same name replaces an earlier one.
func NewSettlementRouter(channels ...port.SettlementChannel) *SettlementRouter {
	byName := make(map[string]port.SettlementChannel, len(channels))
	for _, ch := range channels {
		byName[ch.Name()] = ch
	}
	return &SettlementRouter{channels: byName}
}

// Route returns the channel for method, or false if none is registered.
func (r *SettlementRouter) Route(method valueobject.PaymentMethod) (port.SettlementChannel, bool) {
	ch, ok := r.channels[method.String()]
	return ch, ok
}

// Methods lists the supported payment methods in sorted order.
func (r *SettlementRouter) Methods() []string {
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
