// Package models defines the core domain models for tripsplit.
//
// # Models
//
//   - Participant: a student or party who can pay or owe money on a trip
//   - Trip: a named roster of participants sharing costs
//   - ExpenseRecord: one entry in a trip's append-only expense log
//   - Share: one beneficiary's portion of an ExpenseRecord
//   - Transfer: a planned debtor to creditor payment
//   - User: a registered account; its ID is the participant ID used in rosters
//
// # Design Principles
//
// 1. **Values, not graphs**: relationships are participant IDs, never pointers, so a
// trip never owns its participants and a participant never owns its trips.
// 2. **Integer minor units**: every amount is an int64 count of cents.
// 3. **Append-only log**: ExpenseRecords are never mutated once appended. Corrections
// are new records (payments or reversals) so the history stays auditable.
// 4. **Derived views**: balances and settlement plans are recomputed from the log on
// demand and are never stored as independent state.
package models
