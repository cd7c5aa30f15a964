// Package sqlite provides SQLite-based persistent storage for petapd.
// Uses WAL mode for concurrent reads and crash-safe writes.
//
// All mutations of completion/claim sets are INSERT OR IGNORE (idempotent
// set union); entitlement counters are mutated with guarded atomic UPDATEs
// so two sessions cannot lose an increment.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/petap.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "petap.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Completion set: one row per (user, occurrence id). The occurrence
		// id is the key; goal and day are denormalized for the consecutive
		// walk and history queries.
		`CREATE TABLE IF NOT EXISTS completed_challenges (
			user_id       TEXT NOT NULL,
			occurrence_id TEXT NOT NULL,
			step_goal     INTEGER NOT NULL,
			day           TEXT NOT NULL,
			completed_at  INTEGER NOT NULL,
			PRIMARY KEY (user_id, occurrence_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completed_day ON completed_challenges(user_id, day)`,

		// Claim set: subset of the completion set by invariant.
		`CREATE TABLE IF NOT EXISTS reward_claims (
			user_id       TEXT NOT NULL,
			occurrence_id TEXT NOT NULL,
			claimed_at    INTEGER NOT NULL,
			PRIMARY KEY (user_id, occurrence_id)
		)`,

		// Per-user creation budget.
		`CREATE TABLE IF NOT EXISTS entitlements (
			user_id         TEXT PRIMARY KEY,
			daily_used      INTEGER NOT NULL DEFAULT 0,
			total_chances   INTEGER NOT NULL DEFAULT 0,
			last_reset_date TEXT NOT NULL,
			updated_at      INTEGER NOT NULL
		)`,

		// Album entries. consumed_chance is fixed at creation time and is
		// what deletion consults — never the slot layout at deletion time.
		`CREATE TABLE IF NOT EXISTS stickers (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			name            TEXT NOT NULL DEFAULT '',
			slot            INTEGER NOT NULL,
			consumed_chance BOOLEAN NOT NULL DEFAULT 0,
			source          TEXT NOT NULL,
			reason          TEXT NOT NULL DEFAULT '',
			created_at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stickers_user ON stickers(user_id, slot)`,

		// Today's reported step count per user and day.
		`CREATE TABLE IF NOT EXISTS step_snapshots (
			user_id    TEXT NOT NULL,
			day        TEXT NOT NULL,
			steps      INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, day)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ResetUserData deletes every record belonging to a user. Full account
// data reset only — nothing else ever removes completions or claims.
func (d *DB) ResetUserData(userID string) error {
	stmts := []string{
		`DELETE FROM completed_challenges WHERE user_id = ?`,
		`DELETE FROM reward_claims WHERE user_id = ?`,
		`DELETE FROM entitlements WHERE user_id = ?`,
		`DELETE FROM stickers WHERE user_id = ?`,
		`DELETE FROM step_snapshots WHERE user_id = ?`,
	}
	for _, s := range stmts {
		if _, err := d.db.Exec(s, userID); err != nil {
			return fmt.Errorf("reset user data: %w", err)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
