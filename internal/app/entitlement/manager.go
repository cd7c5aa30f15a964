// Package entitlement manages the per-user sticker-creation budget:
// lazy daily rollover with carry-over, consumption, reward top-ups, and
// restoration on deletion.
package entitlement

import (
	"fmt"
	"log"
	"time"

	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/metrics"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Manager owns the creation-chance budget for all users.
// Every read or mutation goes through EnsureRolledOver first, so the
// new-day reset happens exactly once per day transition, lazily on first
// access.
type Manager struct {
	db    *sqlite.DB
	clock domain.Clock
}

// NewManager creates an entitlement manager.
func NewManager(db *sqlite.DB, clock domain.Clock) *Manager {
	return &Manager{db: db, clock: clock}
}

// Get returns the user's budget record after rollover, creating it with
// the account-creation defaults if absent.
func (m *Manager) Get(userID string) (domain.CreationEntitlement, error) {
	var zero domain.CreationEntitlement
	if userID == "" {
		return zero, domain.ErrNotAuthenticated
	}

	if err := m.EnsureRolledOver(userID); err != nil {
		return zero, err
	}

	e, err := m.db.GetEntitlement(userID)
	if err != nil {
		return zero, fmt.Errorf("load entitlement: %w", err)
	}
	if e == nil {
		return zero, fmt.Errorf("entitlement vanished for %s", userID)
	}

	if e.Corrupt() {
		// Degrade gracefully: Remaining() clamps to 0, so just report.
		log.Printf("[entitlement] %s: %v (used=%d total=%d)",
			userID, domain.ErrCorruptEntitlement, e.DailyUsedCount, e.TotalChances)
	}
	return *e, nil
}

// EnsureRolledOver applies the new-day reset if the record's last reset is
// not today: unused budget carries forward plus one fresh daily chance,
// and the used counter clears. No-op when already reset today.
// Absent records are seeded with the account-creation defaults.
func (m *Manager) EnsureRolledOver(userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	today := m.clock.Today()

	e, err := m.db.GetEntitlement(userID)
	if err != nil {
		return fmt.Errorf("load entitlement: %w", err)
	}
	if e == nil {
		seed := domain.NewEntitlement(userID, today)
		if err := m.db.UpsertEntitlement(seed, time.Now()); err != nil {
			return fmt.Errorf("seed entitlement: %w", err)
		}
		return nil
	}

	if e.LastResetDate == today {
		return nil
	}

	// The guarded UPDATE makes concurrent day-boundary rollovers collapse
	// into one.
	if _, err := m.db.RolloverEntitlement(userID, today, domain.DailyChanceGrant, time.Now()); err != nil {
		return fmt.Errorf("rollover: %w", err)
	}
	return nil
}

// Remaining returns the spendable budget, clamped at zero.
func (m *Manager) Remaining(userID string) (int, error) {
	e, err := m.Get(userID)
	if err != nil {
		return 0, err
	}
	return e.Remaining(), nil
}

// CanCreate reports whether one more sticker may be created.
// Exempt creations (the initial free slots) bypass the budget entirely.
func (m *Manager) CanCreate(userID string, isExempt bool) (bool, error) {
	if isExempt {
		return true, nil
	}
	remaining, err := m.Remaining(userID)
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

// Consume spends one chance. Precondition: Remaining > 0 — the exempt
// path never calls Consume. The spend is a single atomic UPDATE, so two
// sessions cannot spend the same chance twice.
func (m *Manager) Consume(userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := m.EnsureRolledOver(userID); err != nil {
		return err
	}

	ok, err := m.db.ConsumeChance(userID, time.Now())
	if err != nil {
		return fmt.Errorf("consume chance: %w", err)
	}
	if !ok {
		return domain.ErrNoCreationChances
	}
	metrics.ChancesConsumed.Inc()
	return nil
}

// Grant adds reward chances to the budget. Deliberately uncapped so
// reward value is never silently lost.
func (m *Manager) Grant(userID string, count int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if count < 0 {
		return fmt.Errorf("grant count must be non-negative, got %d", count)
	}
	if count == 0 {
		return nil
	}
	if err := m.EnsureRolledOver(userID); err != nil {
		return err
	}

	if err := m.db.GrantChances(userID, count, time.Now()); err != nil {
		return fmt.Errorf("grant chances: %w", err)
	}
	return nil
}

// Restore hands one spent chance back, floored at zero. Invoked only when
// a chance-consuming sticker is deleted — exempt-slot deletions never
// restore, since they never consumed.
func (m *Manager) Restore(userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := m.EnsureRolledOver(userID); err != nil {
		return err
	}

	if err := m.db.RestoreChance(userID, time.Now()); err != nil {
		return fmt.Errorf("restore chance: %w", err)
	}
	metrics.ChancesRestored.Inc()
	return nil
}
