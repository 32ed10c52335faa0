package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Expenses and their shares are append-only; triggers reject edits.
// Shares may be zero, since equal splits of small amounts leave some.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_members (
    trip_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (trip_id, participant_id),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    trip_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    payer TEXT NOT NULL,
    policy TEXT NOT NULL,
    description TEXT NOT NULL,
    activity_id TEXT NOT NULL,
    reverses TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (trip_id) REFERENCES trips(id)
);

CREATE TABLE IF NOT EXISTS expense_shares (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    participant TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount >= 0),
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id)
);

CREATE TRIGGER IF NOT EXISTS expenses_no_update BEFORE UPDATE ON expenses
BEGIN
    SELECT RAISE(ABORT, 'expenses are append-only');
END;

CREATE TRIGGER IF NOT EXISTS expenses_no_delete BEFORE DELETE ON expenses
BEGIN
    SELECT RAISE(ABORT, 'expenses are append-only');
END;

CREATE TRIGGER IF NOT EXISTS expense_shares_no_update BEFORE UPDATE ON expense_shares
BEGIN
    SELECT RAISE(ABORT, 'expense shares are append-only');
END;

CREATE TRIGGER IF NOT EXISTS expense_shares_no_delete BEFORE DELETE ON expense_shares
BEGIN
    SELECT RAISE(ABORT, 'expense shares are append-only');
END;

CREATE INDEX IF NOT EXISTS idx_trip_members_participant ON trip_members(participant_id);
CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id, seq);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
