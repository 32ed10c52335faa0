package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/tripsplit/internal/models"
)

func TestComputeBalances_Empty(t *testing.T) {
	sheet := ComputeBalances(nil, nil)
	assert.Empty(t, sheet)
	assert.Zero(t, sheet.Sum())
}

func TestComputeBalances_RosterMembersAppearAtZero(t *testing.T) {
	records := []models.ExpenseRecord{{
		ID:     "r1",
		Kind:   models.KindExpense,
		Amount: 1000,
		Payer:  "A",
		Shares: []models.Share{{Participant: "B", Amount: 1000}},
	}}

	sheet := ComputeBalances(records, []string{"A", "B", "C"})

	assert.Equal(t, BalanceSheet{"A": 1000, "B": -1000, "C": 0}, sheet)
	assert.Equal(t, []string{"A", "B", "C"}, sheet.Participants())
	assert.False(t, sheet.Settled())
}

func TestSummarize(t *testing.T) {
	records := []models.ExpenseRecord{
		{
			ID: "r1", Kind: models.KindExpense, Amount: 3000, Payer: "A",
			Shares: []models.Share{
				{Participant: "A", Amount: 1000},
				{Participant: "B", Amount: 1000},
				{Participant: "C", Amount: 1000},
			},
		},
		{
			ID: "r2", Kind: models.KindPayment, Amount: 1000, Payer: "B",
			Shares: []models.Share{{Participant: "A", Amount: 1000}},
		},
	}

	got := Summarize(records, []string{"D"})

	assert.Equal(t, []MemberSummary{
		{Participant: "A", Paid: 3000, Share: 2000, Net: 1000},
		{Participant: "B", Paid: 1000, Share: 1000, Net: 0},
		{Participant: "C", Paid: 0, Share: 1000, Net: -1000},
		{Participant: "D"},
	}, got)

	sheet := ComputeBalances(records, []string{"D"})
	for _, s := range got {
		assert.Equal(t, sheet[s.Participant], s.Net, s.Participant)
	}
}

func TestActivityTotals(t *testing.T) {
	records := []models.ExpenseRecord{
		{ID: "museum", Kind: models.KindExpense, Amount: 4500, Payer: "A", ActivityID: "act-1",
			Shares: []models.Share{{Participant: "B", Amount: 4500}}},
		{ID: "bus", Kind: models.KindExpense, Amount: 1200, Payer: "B",
			Shares: []models.Share{{Participant: "A", Amount: 1200}}},
		{ID: "dinner", Kind: models.KindExpense, Amount: 3000, Payer: "A", ActivityID: "act-2",
			Shares: []models.Share{{Participant: "B", Amount: 3000}}},
		{ID: "pay", Kind: models.KindPayment, Amount: 500, Payer: "B",
			Shares: []models.Share{{Participant: "A", Amount: 500}}},
		{ID: "undo", Kind: models.KindReversal, Amount: 3000, Payer: "B", ActivityID: "act-2", Reverses: "dinner",
			Shares: []models.Share{{Participant: "A", Amount: 3000}}},
	}

	assert.Equal(t, map[string]int64{"act-1": 4500, "": 1200}, ActivityTotals(records))
	assert.Equal(t, int64(5700), TotalSpent(records))
}
