// Package ledger keeps a trip's append-only expense log and derives balances from it.
//
// The log is the single source of truth: balances, summaries and activity totals are
// recomputed from it on every call. Records are never edited or removed; a mistake is
// corrected by appending a payment or a reversal.
//
// A Ledger allows a single writer and any number of concurrent readers. Readers take a
// snapshot of the log under a read lock and compute outside it.
package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// ExpenseInput is the caller-supplied part of an expense record.
type ExpenseInput struct {
	// Amount is the total cost in minor units.
	Amount int64

	// Payer is the participant who fronted the money.
	Payer string

	// Policy selects how Amount is divided. Empty means SplitEqual.
	Policy models.SplitPolicy

	// Beneficiaries share the cost under SplitEqual, in the order that decides
	// who receives remainder cents.
	Beneficiaries []string

	// Shares are the explicit portions under SplitWeighted.
	Shares []models.Share

	Description string
	ActivityID  string
}

// CommitFunc persists records before they become visible in the log.
// It runs while the writer lock is held; if it fails nothing is appended.
type CommitFunc func(records []models.ExpenseRecord) error

// Option configures a Ledger.
type Option func(*Ledger)

// WithRoster restricts payers and beneficiaries to the given participants and
// makes every one of them appear in the balance sheet.
func WithRoster(ids ...string) Option {
	return func(l *Ledger) {
		l.addMembers(ids)
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides how record IDs are assigned.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// Ledger is an append-only expense log for one group of participants.
type Ledger struct {
	mu sync.RWMutex

	records  []models.ExpenseRecord
	index    map[string]int  // record ID -> position in records
	reversed map[string]bool // IDs of records already offset by reversals

	roster  []string
	members map[string]bool

	now   func() time.Time
	newID func() string
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		index:    make(map[string]int),
		reversed: make(map[string]bool),
		members:  make(map[string]bool),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddMembers extends the roster. Participants already on it are ignored.
func (l *Ledger) AddMembers(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addMembers(ids)
}

func (l *Ledger) addMembers(ids []string) {
	for _, id := range ids {
		if id == "" || l.members[id] {
			continue
		}
		l.members[id] = true
		l.roster = append(l.roster, id)
	}
}

// Roster returns the roster in join order. It is empty when the ledger
// accepts any participant.
func (l *Ledger) Roster() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.roster)
}

// AddExpense validates in and appends it as a KindExpense record.
// Every violated constraint is reported in a single *ValidationError and the
// log is left untouched. On success the commit hooks run in order and the
// new record's ID is returned.
func (l *Ledger) AddExpense(in ExpenseInput, commit ...CommitFunc) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, err := l.prepare(in, nil)
	if err != nil {
		return "", err
	}
	if err := l.commit([]models.ExpenseRecord{record}, commit); err != nil {
		return "", err
	}
	return record.ID, nil
}

// RecordPayment appends a direct payment of amount from one participant to
// another. A debtor paying a creditor moves both balances toward zero.
func (l *Ledger) RecordPayment(from, to string, amount int64, description string, commit ...CommitFunc) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var v violations
	if from != "" && from == to {
		v.addf("payment sender and recipient must differ")
	}
	record, err := l.prepare(ExpenseInput{
		Amount:      amount,
		Payer:       from,
		Policy:      models.SplitWeighted,
		Shares:      []models.Share{{Participant: to, Amount: amount}},
		Description: description,
	}, v)
	if err != nil {
		return "", err
	}
	record.Kind = models.KindPayment

	if err := l.commit([]models.ExpenseRecord{record}, commit); err != nil {
		return "", err
	}
	return record.ID, nil
}

// Reverse appends the records that cancel the balance effect of an earlier
// expense or payment. Each non-payer beneficiary pays their share back to the
// original payer, so every balance returns to what it was before the record.
// All reversal records are appended together. Returns their IDs.
func (l *Ledger) Reverse(recordID, description string, commit ...CommitFunc) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.index[recordID]
	if !ok {
		return nil, &ValidationError{Violations: []string{"record " + recordID + " does not exist"}}
	}
	original := l.records[pos]

	var v violations
	if original.Kind == models.KindReversal {
		v.addf("record %s is a reversal and cannot be reversed", recordID)
	}
	if l.reversed[recordID] {
		v.addf("record %s has already been reversed", recordID)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if description == "" {
		description = "Reversal of " + original.Description
	}
	createdAt := l.now().Unix()

	var records []models.ExpenseRecord
	for _, s := range original.Shares {
		if s.Participant == original.Payer || s.Amount == 0 {
			continue
		}
		records = append(records, models.ExpenseRecord{
			ID:          l.newID(),
			Kind:        models.KindReversal,
			Amount:      s.Amount,
			Payer:       s.Participant,
			Policy:      models.SplitWeighted,
			Shares:      []models.Share{{Participant: original.Payer, Amount: s.Amount}},
			Description: description,
			ActivityID:  original.ActivityID,
			Reverses:    original.ID,
			CreatedAt:   createdAt,
		})
	}
	if len(records) == 0 {
		return nil, &ValidationError{Violations: []string{"record " + recordID + " has no balance effect to reverse"}}
	}

	if err := l.commit(records, commit); err != nil {
		return nil, err
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids, nil
}

// Restore appends records that were already validated and persisted, for
// example when replaying a trip's log from storage in insertion order.
// Records are checked for structural consistency only; roster membership is
// not enforced. A corrupted record stops the replay with a *ValidationError.
func (l *Ledger) Restore(records ...models.ExpenseRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range records {
		var v violations
		if r.ID == "" {
			v.addf("record has no id")
		} else if _, dup := l.index[r.ID]; dup {
			v.addf("record %s is already in the log", r.ID)
		}
		if r.Payer == "" {
			v.addf("record %s has no payer", r.ID)
		}
		if r.Amount <= 0 || r.Amount > MaxAmount {
			v.addf("record %s amount must be in 1..%d, got %d", r.ID, MaxAmount, r.Amount)
		}
		var sum int64
		badShare := false
		for _, s := range r.Shares {
			// Equal splits of small amounts leave zero shares
			if s.Participant == "" || s.Amount < 0 || s.Amount > MaxAmount {
				v.addf("record %s has invalid share %d for %q", r.ID, s.Amount, s.Participant)
				badShare = true
				break
			}
			sum += s.Amount
		}
		if !badShare && sum != r.Amount {
			v.addf("record %s shares sum to %d, want %d", r.ID, sum, r.Amount)
		}
		if err := v.err(); err != nil {
			return err
		}
		l.append(r)
	}
	return nil
}

// Records returns a copy of the log in insertion order.
// The Shares of the returned records must not be modified.
func (l *Ledger) Records() []models.ExpenseRecord {
	return slices.Clone(l.snapshot())
}

// Record returns the record with the given ID.
func (l *Ledger) Record(id string) (models.ExpenseRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pos, ok := l.index[id]
	if !ok {
		return models.ExpenseRecord{}, false
	}
	return l.records[pos], true
}

// Len returns the number of records in the log.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Balances computes the balance sheet from the current log.
// Calling it twice with no append in between yields identical sheets.
func (l *Ledger) Balances() BalanceSheet {
	records, roster := l.view()
	return ComputeBalances(records, roster)
}

// Summaries computes paid, share and net amounts per participant.
func (l *Ledger) Summaries() []MemberSummary {
	records, roster := l.view()
	return Summarize(records, roster)
}

// ActivityTotals computes spending per activity from the current log.
func (l *Ledger) ActivityTotals() map[string]int64 {
	return ActivityTotals(l.snapshot())
}

// snapshot returns the log with its capacity capped, so later appends never
// write into memory visible through it.
func (l *Ledger) snapshot() []models.ExpenseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records[:len(l.records):len(l.records)]
}

func (l *Ledger) view() ([]models.ExpenseRecord, []string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records[:len(l.records):len(l.records)], l.roster[:len(l.roster):len(l.roster)]
}

// prepare validates in and builds the record. Violations already found by the
// caller are reported together with those of in. Must be called with mu held.
func (l *Ledger) prepare(in ExpenseInput, v violations) (models.ExpenseRecord, error) {
	if in.Amount <= 0 {
		v.addf("amount must be positive, got %d", in.Amount)
	} else if in.Amount > MaxAmount {
		v.addf("amount exceeds maximum of %d", MaxAmount)
	}
	if in.Payer == "" {
		v.addf("payer is required")
	}

	shares := buildShares(in, &v)

	if len(l.members) > 0 {
		if in.Payer != "" && !l.members[in.Payer] {
			v.addf("payer %q is not on the roster", in.Payer)
		}
		for _, s := range shares {
			if s.Participant != "" && !l.members[s.Participant] {
				v.addf("beneficiary %q is not on the roster", s.Participant)
			}
		}
	}

	if err := v.err(); err != nil {
		return models.ExpenseRecord{}, err
	}

	policy := in.Policy
	if policy == "" {
		policy = models.SplitEqual
	}
	return models.ExpenseRecord{
		ID:          l.newID(),
		Kind:        models.KindExpense,
		Amount:      in.Amount,
		Payer:       in.Payer,
		Policy:      policy,
		Shares:      shares,
		Description: in.Description,
		ActivityID:  in.ActivityID,
		CreatedAt:   l.now().Unix(),
	}, nil
}

// commit runs the hooks and then appends. Must be called with mu held.
func (l *Ledger) commit(records []models.ExpenseRecord, hooks []CommitFunc) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(records); err != nil {
			return err
		}
	}
	for _, r := range records {
		l.append(r)
	}
	return nil
}

func (l *Ledger) append(r models.ExpenseRecord) {
	l.index[r.ID] = len(l.records)
	l.records = append(l.records, r)
	if r.Kind == models.KindReversal {
		l.reversed[r.Reverses] = true
	}
}
