package sqlite

import (
	"database/sql"
	"time"

	"github.com/apukou/petapd/internal/domain"
)

// ─── Creation Entitlements ──────────────────────────────────────────────────
// Counter mutations are single guarded UPDATE statements rather than
// read-modify-write, so concurrent sessions cannot lose an increment.

// GetEntitlement returns the user's budget record, or nil if absent.
func (d *DB) GetEntitlement(userID string) (*domain.CreationEntitlement, error) {
	row := d.db.QueryRow(
		`SELECT user_id, daily_used, total_chances, last_reset_date
		 FROM entitlements WHERE user_id = ?`, userID,
	)

	var e domain.CreationEntitlement
	err := row.Scan(&e.UserID, &e.DailyUsedCount, &e.TotalChances, &e.LastResetDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertEntitlement writes the full budget record.
func (d *DB) UpsertEntitlement(e domain.CreationEntitlement, at time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO entitlements (user_id, daily_used, total_chances, last_reset_date, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			daily_used=excluded.daily_used,
			total_chances=excluded.total_chances,
			last_reset_date=excluded.last_reset_date,
			updated_at=excluded.updated_at`,
		e.UserID, e.DailyUsedCount, e.TotalChances, e.LastResetDate, at.Unix(),
	)
	return err
}

// RolloverEntitlement applies the new-day reset in one statement:
// total becomes unused carry-over + the daily grant, used resets to zero.
// The WHERE guard makes the rollover happen at most once per day even if
// two sessions race on the same day boundary.
// Returns false if the record was already reset for today.
func (d *DB) RolloverEntitlement(userID, today string, dailyGrant int, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`UPDATE entitlements
		 SET total_chances   = MAX(0, total_chances - daily_used) + ?,
		     daily_used      = 0,
		     last_reset_date = ?,
		     updated_at      = ?
		 WHERE user_id = ? AND last_reset_date != ?`,
		dailyGrant, today, at.Unix(), userID, today,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// ConsumeChance atomically spends one chance.
// Returns false when nothing remained to spend (precondition violated).
func (d *DB) ConsumeChance(userID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`UPDATE entitlements
		 SET daily_used = daily_used + 1, updated_at = ?
		 WHERE user_id = ? AND daily_used < total_chances`,
		at.Unix(), userID,
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// GrantChances adds reward chances to the budget. Uncapped.
func (d *DB) GrantChances(userID string, count int, at time.Time) error {
	_, err := d.db.Exec(
		`UPDATE entitlements SET total_chances = total_chances + ?, updated_at = ?
		 WHERE user_id = ?`,
		count, at.Unix(), userID,
	)
	return err
}

// RestoreChance hands one spent chance back, floored at zero.
func (d *DB) RestoreChance(userID string, at time.Time) error {
	_, err := d.db.Exec(
		`UPDATE entitlements SET daily_used = MAX(0, daily_used - 1), updated_at = ?
		 WHERE user_id = ?`,
		at.Unix(), userID,
	)
	return err
}
