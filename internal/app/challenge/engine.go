package challenge

import (
	"fmt"
	"log"

	"github.com/apukou/petapd/internal/app/entitlement"
	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/metrics"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Engine is the facade the API and CLI talk to. It composes the evaluator,
// the reward ledger, the entitlement budget, and the sticker sink into the
// full claim flow, and owns step-report ingestion.
type Engine struct {
	db     *sqlite.DB
	clock  domain.Clock
	eval   *Evaluator
	ledger *Ledger
	ents   *entitlement.Manager
	sink   domain.StickerGrantSink
	steps  domain.StepSource
}

// NewEngine wires the engine. A nil steps source falls back to the stored
// step snapshots.
func NewEngine(db *sqlite.DB, clock domain.Clock, ents *entitlement.Manager, sink domain.StickerGrantSink, steps domain.StepSource) *Engine {
	e := &Engine{
		db:     db,
		clock:  clock,
		eval:   NewEvaluator(db, clock),
		ledger: NewLedger(db, clock),
		ents:   ents,
		sink:   sink,
	}
	if steps == nil {
		steps = &snapshotSource{db: db, clock: clock}
	}
	e.steps = steps
	return e
}

// Profile is the aggregate view shown on the profile screen.
type Profile struct {
	UserID           string `json:"user_id"`
	Level            int    `json:"level"`
	DistinctGoals    int    `json:"distinct_goals"`
	TodayCompleted   int    `json:"today_completed"`
	TodaySteps       int    `json:"today_steps"`
	RemainingChances int    `json:"remaining_chances"`
}

// ReportSteps ingests the step count for today. Besides storing the
// snapshot it immediately records every simple challenge the new count
// satisfies, so streak walks and catalog views see today's state without
// waiting for a claim attempt.
func (e *Engine) ReportSteps(userID string, steps int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if steps < 0 {
		return domain.ErrNegativeSteps
	}

	if err := e.db.UpsertStepSnapshot(userID, e.clock.Today(), steps, e.clock.Now()); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	metrics.StepReports.Inc()

	return e.eval.SyncSimpleToday(userID, steps)
}

// AttemptClaim runs the full reward flow for def's today occurrence:
// evaluate, record the completion, claim, then grant stickers and chances.
// Already-claimed and not-satisfied outcomes come back as a ClaimResult
// with Claimed=false, not as errors.
func (e *Engine) AttemptClaim(userID string, def domain.ChallengeDefinition) (domain.ClaimResult, error) {
	var res domain.ClaimResult
	if userID == "" {
		return res, domain.ErrNotAuthenticated
	}

	occ := OccurrenceFor(def, e.clock.Today())

	claimed, err := e.ledger.IsClaimed(userID, occ.ID())
	if err != nil {
		return res, err
	}
	if claimed {
		res.Reason = domain.ReasonAlreadyClaimed
		metrics.ClaimsRejected.WithLabelValues(string(res.Reason)).Inc()
		return res, nil
	}

	steps, err := e.steps.TodaySteps(userID)
	if err != nil {
		return res, fmt.Errorf("read steps: %w", err)
	}

	newlyCompleted, err := e.eval.RecordCompletionIfSatisfied(userID, def, steps)
	if err != nil {
		return res, err
	}
	if newlyCompleted {
		metrics.ChallengesCompleted.WithLabelValues(kindLabel(def)).Inc()
	}

	completed, err := e.eval.IsCompleted(userID, def)
	if err != nil {
		return res, err
	}
	if !completed {
		res.Reason = domain.ReasonNotSatisfied
		metrics.ClaimsRejected.WithLabelValues(string(res.Reason)).Inc()
		return res, nil
	}

	newly, err := e.ledger.Claim(userID, occ.ID())
	if err != nil {
		return res, err
	}
	if !newly {
		// Lost a race with a concurrent claim of the same occurrence.
		res.Reason = domain.ReasonAlreadyClaimed
		metrics.ClaimsRejected.WithLabelValues(string(res.Reason)).Inc()
		return res, nil
	}

	// The claim record is durable at this point. Grants that fail are
	// logged, not rolled back: a retry would double-grant, and the claim
	// set is the only idempotency boundary.
	if def.RewardStickers > 0 {
		if err := e.sink.GrantStickers(userID, def.RewardStickers, def.Title); err != nil {
			log.Printf("[challenge] grant %d stickers for %s: %v", def.RewardStickers, occ.ID(), err)
		} else {
			metrics.StickersGranted.Add(float64(def.RewardStickers))
		}
	}
	if def.RewardCreationChances > 0 {
		if err := e.ents.Grant(userID, def.RewardCreationChances); err != nil {
			log.Printf("[challenge] grant %d chances for %s: %v", def.RewardCreationChances, occ.ID(), err)
		} else {
			metrics.ChancesGranted.Add(float64(def.RewardCreationChances))
		}
	}

	res.Claimed = true
	res.Stickers = def.RewardStickers
	res.Chances = def.RewardCreationChances
	metrics.RewardsClaimed.WithLabelValues(kindLabel(def)).Inc()
	return res, nil
}

// ListChallenges returns today's catalog view: every definition whose
// occurrence has not been claimed, annotated with its evaluation state.
func (e *Engine) ListChallenges(userID string) ([]domain.ChallengeStatus, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	steps, err := e.steps.TodaySteps(userID)
	if err != nil {
		return nil, fmt.Errorf("read steps: %w", err)
	}

	defs, err := e.ledger.Available(userID, Catalog())
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.ChallengeStatus, 0, len(defs))
	for _, def := range defs {
		satisfied, err := e.eval.IsSatisfiedToday(userID, def, steps)
		if err != nil {
			return nil, err
		}
		completed, err := e.eval.IsCompleted(userID, def)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.ChallengeStatus{
			Definition: def,
			Satisfied:  satisfied,
			Completed:  completed,
		})
	}
	return statuses, nil
}

// History returns per-day completed goals for the most recent active days.
func (e *Engine) History(userID string, days int) ([]domain.HistoryDay, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if days <= 0 {
		days = 30
	}
	return e.db.CompletionHistory(userID, days)
}

// Profile aggregates the user's level, today's progress, and the remaining
// creation budget.
func (e *Engine) Profile(userID string) (Profile, error) {
	var p Profile
	if userID == "" {
		return p, domain.ErrNotAuthenticated
	}

	recs, err := e.db.ListCompletions(userID)
	if err != nil {
		return p, fmt.Errorf("list completions: %w", err)
	}

	steps, err := e.steps.TodaySteps(userID)
	if err != nil {
		return p, fmt.Errorf("read steps: %w", err)
	}

	remaining, err := e.ents.Remaining(userID)
	if err != nil {
		return p, err
	}

	p.UserID = userID
	p.Level = LevelFor(recs)
	p.DistinctGoals = TotalDistinctGoals(recs)
	p.TodayCompleted = TodayCompletedCount(recs, e.clock.Today())
	p.TodaySteps = steps
	p.RemainingChances = remaining
	return p, nil
}

// ResetAccount wipes every per-user record: completions, claims, budget,
// stickers, and snapshots. The next access re-seeds the account defaults.
func (e *Engine) ResetAccount(userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	return e.db.ResetUserData(userID)
}

func kindLabel(def domain.ChallengeDefinition) string {
	if def.IsConsecutive {
		return "consecutive"
	}
	return "simple"
}

// snapshotSource reads today's stored step snapshot; absent means zero.
type snapshotSource struct {
	db    *sqlite.DB
	clock domain.Clock
}

func (s *snapshotSource) TodaySteps(userID string) (int, error) {
	snap, err := s.db.GetStepSnapshot(userID, s.clock.Today())
	if err != nil {
		return 0, err
	}
	if snap == nil {
		return 0, nil
	}
	return snap.Steps, nil
}
