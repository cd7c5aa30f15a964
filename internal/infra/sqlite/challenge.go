package sqlite

import (
	"database/sql"
	"time"

	"github.com/apukou/petapd/internal/domain"
)

// ─── Completion Set ─────────────────────────────────────────────────────────

// InsertCompletion records an occurrence as completed.
// Returns false if already present (idempotent set union).
func (d *DB) InsertCompletion(userID string, rec domain.CompletionRecord, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO completed_challenges (user_id, occurrence_id, step_goal, day, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, rec.OccurrenceID, rec.StepGoal, rec.Date, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly completed
}

// HasCompletion checks set membership for one occurrence id.
func (d *DB) HasCompletion(userID, occurrenceID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completed_challenges WHERE user_id = ? AND occurrence_id = ?`,
		userID, occurrenceID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCompletions returns every completion record for a user.
func (d *DB) ListCompletions(userID string) ([]domain.CompletionRecord, error) {
	rows, err := d.db.Query(
		`SELECT occurrence_id, step_goal, day FROM completed_challenges
		 WHERE user_id = ? ORDER BY day DESC, step_goal ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.CompletionRecord
	for rows.Next() {
		var r domain.CompletionRecord
		if err := rows.Scan(&r.OccurrenceID, &r.StepGoal, &r.Date); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// DayHasSimpleCompletion reports whether the user has a simple (two-token)
// completion on the given day with a goal of at least minGoal. This is the
// one query the consecutive-day walk needs per day.
func (d *DB) DayHasSimpleCompletion(userID, day string, minGoal int) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM completed_challenges
		 WHERE user_id = ? AND day = ? AND step_goal >= ?
		   AND occurrence_id = CAST(step_goal AS TEXT) || '_' || day`,
		userID, day, minGoal,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CompletionHistory returns per-day completed goals for the most recent
// days with any completion, newest first.
func (d *DB) CompletionHistory(userID string, days int) ([]domain.HistoryDay, error) {
	rows, err := d.db.Query(
		`SELECT day, step_goal FROM completed_challenges
		 WHERE user_id = ? AND day IN (
			SELECT DISTINCT day FROM completed_challenges
			WHERE user_id = ? ORDER BY day DESC LIMIT ?
		 )
		 ORDER BY day DESC, step_goal ASC`,
		userID, userID, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.HistoryDay
	for rows.Next() {
		var day string
		var goal int
		if err := rows.Scan(&day, &goal); err != nil {
			return nil, err
		}
		if len(history) == 0 || history[len(history)-1].Date != day {
			history = append(history, domain.HistoryDay{Date: day})
		}
		history[len(history)-1].Goals = append(history[len(history)-1].Goals, goal)
	}
	return history, rows.Err()
}

// ─── Claim Set ──────────────────────────────────────────────────────────────

// InsertClaim marks an occurrence's reward as granted.
// Returns false if already claimed (the idempotency boundary).
func (d *DB) InsertClaim(userID, occurrenceID string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO reward_claims (user_id, occurrence_id, claimed_at)
		 VALUES (?, ?, ?)`,
		userID, occurrenceID, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly claimed
}

// IsClaimed checks whether a reward was already granted.
func (d *DB) IsClaimed(userID, occurrenceID string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM reward_claims WHERE user_id = ? AND occurrence_id = ?`,
		userID, occurrenceID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListClaims returns all claimed occurrence ids for a user.
func (d *DB) ListClaims(userID string) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT occurrence_id FROM reward_claims WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Step Snapshots ─────────────────────────────────────────────────────────

// UpsertStepSnapshot stores the reported step count for one user-day.
// The external source may revise downward across restarts; last write wins.
func (d *DB) UpsertStepSnapshot(userID, day string, steps int, at time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO step_snapshots (user_id, day, steps, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET steps=excluded.steps, updated_at=excluded.updated_at`,
		userID, day, steps, at.Unix(),
	)
	return err
}

// GetStepSnapshot returns the stored count for one user-day, or nil.
func (d *DB) GetStepSnapshot(userID, day string) (*domain.StepSnapshot, error) {
	row := d.db.QueryRow(
		`SELECT user_id, day, steps, updated_at FROM step_snapshots
		 WHERE user_id = ? AND day = ?`, userID, day,
	)

	var s domain.StepSnapshot
	var updatedAt int64
	err := row.Scan(&s.UserID, &s.Date, &s.Steps, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Unix(updatedAt, 0)
	return &s, nil
}
