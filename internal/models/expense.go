package models

// RecordKind distinguishes the entries of an expense log.
type RecordKind string

const (
	// KindExpense is a shared cost fronted by the payer.
	KindExpense RecordKind = "expense"

	// KindPayment is a direct transfer from the payer to a single beneficiary,
	// typically made to settle a debt.
	KindPayment RecordKind = "payment"

	// KindReversal offsets part of an earlier expense.
	KindReversal RecordKind = "reversal"
)

// SplitPolicy describes how an expense amount is divided among beneficiaries.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly; remainder cents go to the first
	// beneficiaries in listed order.
	SplitEqual SplitPolicy = "equal"

	// SplitWeighted uses explicit per-beneficiary shares that sum to the amount.
	SplitWeighted SplitPolicy = "weighted"
)

// Share is one beneficiary's portion of an expense.
type Share struct {
	Participant string
	Amount      int64
}

// ExpenseRecord is one entry in a trip's append-only expense log.
// Records are never mutated after they are appended.
type ExpenseRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// Kind is the type of log entry.
	Kind RecordKind

	// Amount is the total cost in minor units. Always positive.
	Amount int64

	// Payer is the participant who fronted the money.
	Payer string

	// Policy is how Amount was divided into Shares.
	Policy SplitPolicy

	// Shares lists the beneficiaries in the order they were given, with the
	// computed portion of each. Their amounts always sum to Amount.
	Shares []Share

	// Description is free text, not used in computation.
	Description string

	// ActivityID optionally links the cost to a trip activity.
	ActivityID string

	// Reverses is the ID of the record this reversal offsets.
	// Empty for expenses and payments.
	Reverses string

	// CreatedAt is the Unix timestamp when the record was appended.
	CreatedAt int64
}

// Beneficiaries returns the participant IDs of the shares in listed order.
func (r ExpenseRecord) Beneficiaries() []string {
	ids := make([]string, len(r.Shares))
	for i, s := range r.Shares {
		ids[i] = s.Participant
	}
	return ids
}

// ShareOf returns the portion owed by the participant, or zero if they are
// not a beneficiary.
func (r ExpenseRecord) ShareOf(participant string) int64 {
	var total int64
	for _, s := range r.Shares {
		if s.Participant == participant {
			total += s.Amount
		}
	}
	return total
}
