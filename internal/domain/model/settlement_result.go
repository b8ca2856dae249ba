package model

// SettlementResult is what a settlement channel reports for one charge.
type SettlementResult struct {
	Channel      string
	SettlementID string
	Message      string
	Success      bool
}
