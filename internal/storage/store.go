// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

// ErrNotFound is wrapped by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// TripStore persists trips and their rosters.
type TripStore interface {
	// CreateTrip persists a new trip. trip.ID and trip.CreatedAt are filled in
	// when empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its roster in join order.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsByMember retrieves every trip whose roster contains the participant.
	ListTripsByMember(ctx context.Context, participantID string) ([]*models.Trip, error)

	// AddTripMembers appends participants to the roster, skipping those already on it.
	AddTripMembers(ctx context.Context, tripID string, members []models.Participant) error
}

// ExpenseStore persists the append-only expense log of each trip.
// Records are never updated or deleted.
type ExpenseStore interface {
	// AppendExpenses stores records atomically, after all previous records of the trip.
	AppendExpenses(ctx context.Context, tripID string, records []models.ExpenseRecord) error

	// ListExpenses returns the trip's records in insertion order, ready for replay.
	ListExpenses(ctx context.Context, tripID string) ([]models.ExpenseRecord, error)
}

// Store combines all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	TripStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
