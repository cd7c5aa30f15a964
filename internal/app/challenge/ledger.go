package challenge

import (
	"fmt"
	"time"

	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Ledger tracks which challenge occurrences have had their reward granted.
// The claim set is the sole idempotency boundary against double-grants:
// double-taps, retries, and concurrent sessions all collapse into a single
// grant because inserting an already-present id is a no-op.
type Ledger struct {
	db    *sqlite.DB
	clock domain.Clock
}

// NewLedger creates a reward ledger.
func NewLedger(db *sqlite.DB, clock domain.Clock) *Ledger {
	return &Ledger{db: db, clock: clock}
}

// IsClaimed reports whether the occurrence's reward was already granted.
func (l *Ledger) IsClaimed(userID, occurrenceID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}
	return l.db.IsClaimed(userID, occurrenceID)
}

// Claim marks the occurrence's reward as granted.
// Precondition: the occurrence is in the completion set — a claim can never
// precede completion (ClaimRecord ⊆ CompletionRecord).
// Returns false if the reward was already claimed.
func (l *Ledger) Claim(userID, occurrenceID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}

	completed, err := l.db.HasCompletion(userID, occurrenceID)
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}
	if !completed {
		return false, domain.ErrChallengeNotCompleted
	}

	newly, err := l.db.InsertClaim(userID, occurrenceID, time.Now())
	if err != nil {
		return false, fmt.Errorf("insert claim: %w", err)
	}
	return newly, nil
}

// Available returns the catalog entries whose today occurrence has not
// been claimed. Not-yet-satisfied and satisfied-but-unclaimed challenges
// both stay visible; only fully-claimed ones drop out.
func (l *Ledger) Available(userID string, defs []domain.ChallengeDefinition) ([]domain.ChallengeDefinition, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	today := l.clock.Today()
	var out []domain.ChallengeDefinition
	for _, def := range defs {
		claimed, err := l.db.IsClaimed(userID, OccurrenceFor(def, today).ID())
		if err != nil {
			return nil, err
		}
		if !claimed {
			out = append(out, def)
		}
	}
	return out, nil
}
