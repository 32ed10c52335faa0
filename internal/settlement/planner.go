// Package settlement turns a balance sheet into a list of transfers that zeroes it.
//
// Plan uses greedy largest-pair matching: the largest remaining creditor is paid by the
// largest remaining debtor until both sides are exhausted. Every step settles at least
// one participant and the final step settles two, so a plan never has more than
// (participants with a non-zero balance - 1) transfers. This bound is a property of the
// heuristic; the plan is not guaranteed to be the global minimum.
package settlement

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
)

// ErrImbalance matches every *ImbalanceError via errors.Is.
var ErrImbalance = errors.New("balances do not sum to zero")

// ImbalanceError means the balance sheet handed to the planner was not
// conserved. It signals a ledger bug or a corrupted replay and must not be
// retried.
type ImbalanceError struct {
	// Sum is the non-zero total of the sheet.
	Sum int64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: sum is %d", ErrImbalance, e.Sum)
}

// Is reports whether target is ErrImbalance.
func (e *ImbalanceError) Is(target error) bool {
	return target == ErrImbalance
}

// Plan computes the transfers that settle sheet. The sheet is not modified.
// Ties between equal balances are broken by participant ID ascending, so the
// same sheet always yields the same plan.
func Plan(sheet ledger.BalanceSheet) ([]models.Transfer, error) {
	if sum := sheet.Sum(); sum != 0 {
		return nil, &ImbalanceError{Sum: sum}
	}

	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for id, balance := range sheet {
		switch {
		case balance > 0:
			*creditors = append(*creditors, party{id: id, remaining: balance})
		case balance < 0:
			*debtors = append(*debtors, party{id: id, remaining: -balance})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	transfers := make([]models.Transfer, 0, max(len(*creditors)+len(*debtors)-1, 0))
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		amount := min(creditor.remaining, debtor.remaining)
		transfers = append(transfers, models.Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount
		if creditor.remaining > 0 {
			heap.Push(creditors, creditor)
		}
		if debtor.remaining > 0 {
			heap.Push(debtors, debtor)
		}
	}

	// Conservation guarantees both sides run out together.
	if creditors.Len() > 0 || debtors.Len() > 0 {
		return nil, &ImbalanceError{Sum: creditors.total() - debtors.total()}
	}
	return transfers, nil
}

// Apply returns a copy of sheet with every transfer applied: the sender's
// balance rises and the recipient's falls by the amount.
func Apply(sheet ledger.BalanceSheet, transfers []models.Transfer) ledger.BalanceSheet {
	out := sheet.Clone()
	for _, t := range transfers {
		out[t.From] += t.Amount
		out[t.To] -= t.Amount
	}
	return out
}

// party is one side of the matching with the magnitude still to settle.
type party struct {
	id        string
	remaining int64
}

// partyHeap is a max-heap on remaining, ties by id ascending.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining > h[j].remaining
	}
	return h[i].id < h[j].id
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

func (h partyHeap) total() int64 {
	var sum int64
	for _, p := range h {
		sum += p.remaining
	}
	return sum
}
