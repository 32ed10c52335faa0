package ledger

import (
	"sort"

	"github.com/mmynk/tripsplit/internal/models"
)

// BalanceSheet maps participant IDs to signed balances in minor units.
// Positive = is owed money, negative = owes money, zero = settled.
type BalanceSheet map[string]int64

// Sum returns the total of all balances. It is zero for any sheet derived
// from a consistent log.
func (b BalanceSheet) Sum() int64 {
	var sum int64
	for _, amount := range b {
		sum += amount
	}
	return sum
}

// Participants returns the participant IDs in ascending order.
func (b BalanceSheet) Participants() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Settled reports whether every balance is zero.
func (b BalanceSheet) Settled() bool {
	for _, amount := range b {
		if amount != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the sheet.
func (b BalanceSheet) Clone() BalanceSheet {
	out := make(BalanceSheet, len(b))
	for id, amount := range b {
		out[id] = amount
	}
	return out
}

// ComputeBalances folds records into a balance sheet.
// For every record the payer is credited with the amount and every beneficiary
// is debited with their share; a payer who is also a beneficiary nets out.
// Every roster member and every participant seen in a record appears in the
// result, at zero if settled.
func ComputeBalances(records []models.ExpenseRecord, roster []string) BalanceSheet {
	sheet := make(BalanceSheet, len(roster))
	for _, id := range roster {
		sheet[id] = 0
	}
	for _, r := range records {
		sheet[r.Payer] += r.Amount
		for _, s := range r.Shares {
			sheet[s.Participant] -= s.Amount
		}
	}
	return sheet
}

// MemberSummary breaks a participant's balance into what they paid and what
// their shares came to.
type MemberSummary struct {
	Participant string
	Paid        int64 // Total fronted as payer across all records
	Share       int64 // Total of this participant's shares
	Net         int64 // Paid - Share; equals the balance sheet entry
}

// Summarize returns one summary per participant, ordered by participant ID.
func Summarize(records []models.ExpenseRecord, roster []string) []MemberSummary {
	byID := make(map[string]*MemberSummary, len(roster))
	get := func(id string) *MemberSummary {
		s, ok := byID[id]
		if !ok {
			s = &MemberSummary{Participant: id}
			byID[id] = s
		}
		return s
	}

	for _, id := range roster {
		get(id)
	}
	for _, r := range records {
		get(r.Payer).Paid += r.Amount
		for _, sh := range r.Shares {
			get(sh.Participant).Share += sh.Amount
		}
	}

	summaries := make([]MemberSummary, 0, len(byID))
	for _, s := range byID {
		s.Net = s.Paid - s.Share
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Participant < summaries[j].Participant
	})
	return summaries
}

// ActivityTotals returns the amount spent per activity ID.
// Only expenses count; payments move money between participants without new
// spending, and a reversed expense drops out entirely. Costs without an
// activity are reported under the empty key.
func ActivityTotals(records []models.ExpenseRecord) map[string]int64 {
	reversed := make(map[string]bool)
	for _, r := range records {
		if r.Kind == models.KindReversal {
			reversed[r.Reverses] = true
		}
	}

	totals := make(map[string]int64)
	for _, r := range records {
		if r.Kind != models.KindExpense || reversed[r.ID] {
			continue
		}
		totals[r.ActivityID] += r.Amount
	}
	return totals
}

// TotalSpent returns the net group spending recorded in the log.
func TotalSpent(records []models.ExpenseRecord) int64 {
	var total int64
	for _, amount := range ActivityTotals(records) {
		total += amount
	}
	return total
}
