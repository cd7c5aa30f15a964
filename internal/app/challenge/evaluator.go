package challenge

import (
	"fmt"
	"log"
	"time"

	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Evaluator decides whether a challenge is satisfied today and records
// completions. Consecutive evaluation forces today's simple completions to
// be recorded first, so a streak's final day can never be missed because
// of caller ordering.
type Evaluator struct {
	db    *sqlite.DB
	clock domain.Clock
}

// NewEvaluator creates an evaluator.
func NewEvaluator(db *sqlite.DB, clock domain.Clock) *Evaluator {
	return &Evaluator{db: db, clock: clock}
}

// IsSatisfiedToday reports whether def's condition holds right now.
// Simple challenges compare currentSteps against the goal. Consecutive
// challenges walk backward from today through ConsecutiveDays calendar
// days; every day must carry a recorded simple completion with a goal of
// at least def.StepGoal, and the walk fails at the first gap.
func (e *Evaluator) IsSatisfiedToday(userID string, def domain.ChallengeDefinition, currentSteps int) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}

	if !def.IsConsecutive {
		return currentSteps >= def.StepGoal, nil
	}

	// Today's contribution to the streak must be durable before the walk.
	if err := e.SyncSimpleToday(userID, currentSteps); err != nil {
		return false, err
	}

	return e.consecutiveSatisfied(userID, def)
}

// consecutiveSatisfied walks offsets 0..days-1 backward from today.
func (e *Evaluator) consecutiveSatisfied(userID string, def domain.ChallengeDefinition) (bool, error) {
	if def.ConsecutiveDays <= 0 {
		return false, nil
	}

	today := e.clock.Now()
	for offset := 0; offset < def.ConsecutiveDays; offset++ {
		day := today.AddDate(0, 0, -offset).Format(domain.DateLayout)
		ok, err := e.db.DayHasSimpleCompletion(userID, day, def.StepGoal)
		if err != nil {
			return false, fmt.Errorf("check day %s: %w", day, err)
		}
		if !ok {
			return false, nil // first gap ends the walk
		}
	}
	return true, nil
}

// RecordCompletionIfSatisfied inserts today's occurrence into the
// completion set when the condition holds and the reward has not been
// claimed. The insert is an idempotent set union; the bool reports whether
// this call newly completed it.
func (e *Evaluator) RecordCompletionIfSatisfied(userID string, def domain.ChallengeDefinition, currentSteps int) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}

	occ := OccurrenceFor(def, e.clock.Today())

	claimed, err := e.db.IsClaimed(userID, occ.ID())
	if err != nil {
		return false, fmt.Errorf("check claim: %w", err)
	}
	if claimed {
		return false, nil // completed and rewarded — nothing to do
	}

	satisfied, err := e.IsSatisfiedToday(userID, def, currentSteps)
	if err != nil {
		return false, err
	}
	if !satisfied {
		return false, nil
	}

	return e.insertCompletion(userID, occ)
}

// SyncSimpleToday records a simple-format day completion for every catalog
// goal currentSteps already meets, for today. Consecutive definitions
// contribute their per-day leg here too ("{goal}_{date}", no marker) —
// that leg is what the streak walk inspects on later days. Invoked on
// every step report and before every consecutive walk. Persistence
// failures are non-fatal: they are logged and the remaining inserts still
// run (at-least-once, the set is id-keyed).
func (e *Evaluator) SyncSimpleToday(userID string, currentSteps int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	today := e.clock.Today()
	for _, def := range catalog {
		if currentSteps < def.StepGoal {
			continue
		}
		occ := domain.Occurrence{StepGoal: def.StepGoal, Date: today}
		if _, err := e.insertCompletion(userID, occ); err != nil {
			log.Printf("[challenge] record %d_%s: %v", def.StepGoal, today, err)
		}
	}
	return nil
}

// IsCompleted checks set membership for def's today occurrence.
func (e *Evaluator) IsCompleted(userID string, def domain.ChallengeDefinition) (bool, error) {
	if userID == "" {
		return false, domain.ErrNotAuthenticated
	}
	return e.db.HasCompletion(userID, OccurrenceFor(def, e.clock.Today()).ID())
}

func (e *Evaluator) insertCompletion(userID string, occ domain.Occurrence) (bool, error) {
	rec := domain.CompletionRecord{
		OccurrenceID: occ.ID(),
		StepGoal:     occ.StepGoal,
		Date:         occ.Date,
	}
	newly, err := e.db.InsertCompletion(userID, rec, time.Now())
	if err != nil {
		return false, fmt.Errorf("insert completion: %w", err)
	}
	return newly, nil
}
