package service

import (
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPITrip(t *models.Trip) *api.Trip {
	members := make([]api.Participant, len(t.Members))
	for i, m := range t.Members {
		members[i] = api.Participant{ID: m.ID, Name: m.Name}
	}
	return &api.Trip{
		ID:        t.ID,
		Name:      t.Name,
		Members:   members,
		CreatedAt: t.CreatedAt,
	}
}

func toAPIShares(shares []models.Share) []api.Share {
	out := make([]api.Share, len(shares))
	for i, s := range shares {
		out[i] = api.Share{Participant: s.Participant, Amount: s.Amount}
	}
	return out
}

func fromAPIShares(shares []api.Share) []models.Share {
	if len(shares) == 0 {
		return nil
	}
	out := make([]models.Share, len(shares))
	for i, s := range shares {
		out[i] = models.Share{Participant: s.Participant, Amount: s.Amount}
	}
	return out
}

func toAPIExpense(r models.ExpenseRecord) *api.Expense {
	return &api.Expense{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Amount:      r.Amount,
		Payer:       r.Payer,
		Policy:      string(r.Policy),
		Shares:      toAPIShares(r.Shares),
		Description: r.Description,
		ActivityID:  r.ActivityID,
		Reverses:    r.Reverses,
		CreatedAt:   r.CreatedAt,
	}
}
