package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/models"
)

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		n      int
		want   []int64
	}{
		{name: "divides evenly", amount: 3000, n: 3, want: []int64{1000, 1000, 1000}},
		{name: "remainder to first beneficiaries", amount: 1000, n: 3, want: []int64{334, 333, 333}},
		{name: "two remainder cents", amount: 1001, n: 3, want: []int64{334, 334, 333}},
		{name: "single beneficiary", amount: 999, n: 1, want: []int64{999}},
		{name: "fewer cents than beneficiaries", amount: 2, n: 4, want: []int64{1, 1, 0, 0}},
		{name: "no beneficiaries", amount: 100, n: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EqualSplit(tt.amount, tt.n)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqualSplit_SumsToAmount(t *testing.T) {
	for amount := int64(1); amount <= 500; amount += 7 {
		for n := 1; n <= 12; n++ {
			var sum int64
			for _, share := range EqualSplit(amount, n) {
				sum += share
			}
			require.Equal(t, amount, sum, "amount=%d n=%d", amount, n)
		}
	}
}

func TestWeightedSplit(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		shares  []models.Share
		wantErr bool
	}{
		{
			name:   "exact sum",
			amount: 1000,
			shares: []models.Share{{Participant: "B", Amount: 700}, {Participant: "C", Amount: 300}},
		},
		{
			name:    "short by one cent",
			amount:  1000,
			shares:  []models.Share{{Participant: "B", Amount: 700}, {Participant: "C", Amount: 299}},
			wantErr: true,
		},
		{
			name:    "zero share",
			amount:  700,
			shares:  []models.Share{{Participant: "B", Amount: 700}, {Participant: "C", Amount: 0}},
			wantErr: true,
		},
		{
			name:    "negative share",
			amount:  500,
			shares:  []models.Share{{Participant: "B", Amount: 700}, {Participant: "C", Amount: -200}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WeightedSplit(tt.amount, tt.shares)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
