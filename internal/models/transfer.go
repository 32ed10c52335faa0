package models

// Transfer is a planned payment from a debtor to a creditor.
// Transfers are produced by the settlement planner and are never persisted.
type Transfer struct {
	// From is the participant who pays (net debtor).
	From string

	// To is the participant who receives (net creditor).
	To string

	// Amount is the payment in minor units. Always positive.
	Amount int64
}
