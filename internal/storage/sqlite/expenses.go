package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/tripsplit/internal/models"
)

// AppendExpenses stores records and their shares in a single transaction.
// Either every record is stored or none is.
func (s *SQLiteStore) AppendExpenses(ctx context.Context, tripID string, records []models.ExpenseRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses
			 (id, trip_id, kind, amount, payer, policy, description, activity_id, reverses, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, tripID, string(r.Kind), r.Amount, r.Payer, string(r.Policy),
			r.Description, r.ActivityID, r.Reverses, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", r.ID, err)
		}

		for i, share := range r.Shares {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO expense_shares (expense_id, position, participant, amount) VALUES (?, ?, ?, ?)",
				r.ID, i, share.Participant, share.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share of expense %s: %w", r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a trip's records in the order they were appended.
// An unknown trip has an empty log.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]models.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount, payer, policy, description, activity_id, reverses, created_at
		 FROM expenses
		 WHERE trip_id = ?
		 ORDER BY seq`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var records []models.ExpenseRecord
	index := make(map[string]int)
	for rows.Next() {
		var r models.ExpenseRecord
		var kind, policy string
		if err := rows.Scan(&r.ID, &kind, &r.Amount, &r.Payer, &policy,
			&r.Description, &r.ActivityID, &r.Reverses, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		r.Kind = models.RecordKind(kind)
		r.Policy = models.SplitPolicy(policy)
		index[r.ID] = len(records)
		records = append(records, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	shareRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.participant, s.amount
		 FROM expense_shares s
		 INNER JOIN expenses e ON e.id = s.expense_id
		 WHERE e.trip_id = ?
		 ORDER BY e.seq, s.position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID string
		var share models.Share
		if err := shareRows.Scan(&expenseID, &share.Participant, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		pos, ok := index[expenseID]
		if !ok {
			continue
		}
		records[pos].Shares = append(records[pos].Shares, share)
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return records, nil
}
