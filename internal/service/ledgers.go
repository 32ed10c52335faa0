package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// Ledgers keeps one in-memory ledger per trip. A ledger is replayed from storage
// the first time its trip is used and stays cached for the life of the process.
// Writes go through the ledger's commit hook, so the cache and the store never
// disagree about the log.
type Ledgers struct {
	store   storage.Store
	metrics *metrics.Metrics

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

// NewLedgers creates an empty ledger cache backed by store.
func NewLedgers(store storage.Store, m *metrics.Metrics) *Ledgers {
	return &Ledgers{
		store:   store,
		metrics: m,
		ledgers: make(map[string]*ledger.Ledger),
	}
}

// Get returns the ledger of a trip, replaying it from storage if needed.
// The roster is read from storage under the cache lock, so a concurrent
// AddMembers is either seen by the load or applied to the cached ledger.
func (c *Ledgers) Get(ctx context.Context, tripID string) (*ledger.Ledger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.ledgers[tripID]; ok {
		return l, nil
	}

	trip, err := c.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip %s: %w", tripID, err)
	}
	records, err := c.store.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses of trip %s: %w", tripID, err)
	}

	l := ledger.New(ledger.WithRoster(trip.MemberIDs()...))
	if err := l.Restore(records...); err != nil {
		return nil, fmt.Errorf("failed to replay trip %s: %w", tripID, err)
	}

	c.ledgers[tripID] = l
	c.metrics.LedgersLoaded.Inc()
	return l, nil
}

// AddMembers extends the roster of a cached ledger. It must be called after the
// members are stored; ledgers not loaded yet read the stored roster when they are.
func (c *Ledgers) AddMembers(tripID string, ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.ledgers[tripID]; ok {
		l.AddMembers(ids...)
	}
}

// persist returns a commit hook that appends records to the trip's stored log.
func (c *Ledgers) persist(ctx context.Context, tripID string) ledger.CommitFunc {
	return func(records []models.ExpenseRecord) error {
		return c.store.AppendExpenses(ctx, tripID, records)
	}
}
