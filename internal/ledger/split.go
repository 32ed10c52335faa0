package ledger

import "github.com/mmynk/tripsplit/internal/models"

// MaxAmount bounds any single amount or share. A balance stays inside int64
// for up to about 9.2 million maximal records on one participant.
const MaxAmount int64 = 1_000_000_000_000

// EqualSplit divides amount into n shares.
// Every share gets amount/n; the first amount%n shares get one extra minor unit,
// so the shares always add back up to amount. Returns nil when n <= 0.
func EqualSplit(amount int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := amount / int64(n)
	remainder := amount % int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// WeightedSplit checks explicit shares against amount.
// Every share must be positive and together they must equal amount exactly.
func WeightedSplit(amount int64, shares []models.Share) error {
	var v violations
	checkWeighted(amount, shares, &v)
	return v.err()
}

func checkWeighted(amount int64, shares []models.Share, v *violations) {
	var sum int64
	for _, s := range shares {
		if s.Amount <= 0 {
			v.addf("share for %q must be positive, got %d", s.Participant, s.Amount)
			continue
		}
		if s.Amount > MaxAmount {
			v.addf("share for %q exceeds maximum of %d", s.Participant, MaxAmount)
			return
		}
		sum += s.Amount
	}
	if sum != amount {
		v.addf("weighted shares sum to %d, want %d", sum, amount)
	}
}

// buildShares validates the beneficiaries of in and returns the computed shares.
// Violations are appended to v; the returned shares are only meaningful when
// no violation was added.
func buildShares(in ExpenseInput, v *violations) []models.Share {
	switch in.Policy {
	case models.SplitEqual, "":
		checkBeneficiaries(in.Beneficiaries, v)
		if len(in.Shares) > 0 {
			v.addf("explicit shares are only allowed with the %s policy", models.SplitWeighted)
		}
		amounts := EqualSplit(in.Amount, len(in.Beneficiaries))
		shares := make([]models.Share, len(in.Beneficiaries))
		for i, p := range in.Beneficiaries {
			shares[i] = models.Share{Participant: p, Amount: amounts[i]}
		}
		return shares

	case models.SplitWeighted:
		if len(in.Beneficiaries) > 0 {
			v.addf("beneficiaries of a %s split are given through shares", models.SplitWeighted)
		}
		ids := make([]string, len(in.Shares))
		for i, s := range in.Shares {
			ids[i] = s.Participant
		}
		checkBeneficiaries(ids, v)
		if in.Amount > 0 && in.Amount <= MaxAmount {
			checkWeighted(in.Amount, in.Shares, v)
		}
		shares := make([]models.Share, len(in.Shares))
		copy(shares, in.Shares)
		return shares

	default:
		v.addf("unknown split policy %q", in.Policy)
		return nil
	}
}

func checkBeneficiaries(ids []string, v *violations) {
	if len(ids) == 0 {
		v.addf("at least one beneficiary is required")
		return
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			v.addf("beneficiary id must not be empty")
			continue
		}
		if seen[id] {
			v.addf("beneficiary %q is listed more than once", id)
		}
		seen[id] = true
	}
}
