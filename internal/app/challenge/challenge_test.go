package challenge

import (
	"testing"
	"time"

	"github.com/apukou/petapd/internal/app/entitlement"
	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// testClock is a Clock whose current time can be advanced mid-test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }
func (c *testClock) Today() string  { return c.now.Format(domain.DateLayout) }

// stubSteps is a StepSource returning a settable count.
type stubSteps struct {
	steps int
}

func (s *stubSteps) TodaySteps(string) (int, error) { return s.steps, nil }

// countingSink records granted stickers without an album.
type countingSink struct {
	granted int
	reasons []string
}

func (s *countingSink) GrantStickers(_ string, count int, reason string) error {
	s.granted += count
	s.reasons = append(s.reasons, reason)
	return nil
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEngine(t *testing.T) (*Engine, *testClock, *stubSteps, *countingSink, *entitlement.Manager) {
	t.Helper()
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	steps := &stubSteps{}
	sink := &countingSink{}
	ents := entitlement.NewManager(db, clock)
	return NewEngine(db, clock, ents, sink, steps), clock, steps, sink, ents
}

func mustLookup(t *testing.T, goal int, consecutive bool, days int) domain.ChallengeDefinition {
	t.Helper()
	def, err := Lookup(goal, consecutive, days)
	if err != nil {
		t.Fatalf("Lookup(%d, %v, %d): %v", goal, consecutive, days, err)
	}
	return def
}

// ─── Catalog ────────────────────────────────────────────────────────────────

func TestCatalog_Lookup(t *testing.T) {
	def := mustLookup(t, 10000, false, 0)
	if def.Title != "Master Challenge" {
		t.Errorf("title = %q, unexpected", def.Title)
	}

	streak := mustLookup(t, 3000, true, 3)
	if !streak.IsConsecutive || streak.ConsecutiveDays != 3 {
		t.Errorf("streak fields = (%v, %d), want (true, 3)", streak.IsConsecutive, streak.ConsecutiveDays)
	}

	if _, err := Lookup(777, false, 0); err != domain.ErrUnknownChallenge {
		t.Errorf("unknown lookup err = %v, want ErrUnknownChallenge", err)
	}

	// 4000 exists both as a daily and as a 31-day streak.
	daily := mustLookup(t, 4000, false, 0)
	monthly := mustLookup(t, 4000, true, 31)
	if daily.Title == monthly.Title {
		t.Error("daily and streak 4000 must be distinct entries")
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Title = "mutated"
	if Catalog()[0].Title == "mutated" {
		t.Error("Catalog() must not expose the internal slice")
	}
}

// ─── Occurrence identity ────────────────────────────────────────────────────

func TestOccurrenceFor_IDs(t *testing.T) {
	simple := OccurrenceFor(mustLookup(t, 500, false, 0), "2025-06-15")
	if simple.ID() != "500_2025-06-15" {
		t.Errorf("simple id = %q", simple.ID())
	}

	streak := OccurrenceFor(mustLookup(t, 5000, true, 7), "2025-06-15")
	if streak.ID() != "5000_2025-06-15_consecutive_7" {
		t.Errorf("streak id = %q", streak.ID())
	}
}

// ─── Evaluator ──────────────────────────────────────────────────────────────

func TestEvaluator_SimpleSatisfaction(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	def := mustLookup(t, 2000, false, 0)

	ok, err := eval.IsSatisfiedToday("u1", def, 1999)
	if err != nil {
		t.Fatalf("IsSatisfiedToday: %v", err)
	}
	if ok {
		t.Error("1999 steps should not satisfy a 2000 goal")
	}

	ok, _ = eval.IsSatisfiedToday("u1", def, 2000)
	if !ok {
		t.Error("exactly 2000 steps should satisfy a 2000 goal")
	}
}

func TestEvaluator_RecordIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	def := mustLookup(t, 500, false, 0)

	newly, err := eval.RecordCompletionIfSatisfied("u1", def, 800)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !newly {
		t.Error("first record should be new")
	}

	newly, _ = eval.RecordCompletionIfSatisfied("u1", def, 800)
	if newly {
		t.Error("second record of the same occurrence must be a no-op")
	}
}

func TestEvaluator_ConsecutiveStreak(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	streak := mustLookup(t, 3000, true, 3)

	// Day 1 and day 2: hit the goal each day.
	clock.now = time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	if err := eval.SyncSimpleToday("u1", 3500); err != nil {
		t.Fatalf("sync day1: %v", err)
	}
	clock.now = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	if err := eval.SyncSimpleToday("u1", 4200); err != nil {
		t.Fatalf("sync day2: %v", err)
	}

	// Day 3: satisfaction check records today itself before the walk.
	clock.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	ok, err := eval.IsSatisfiedToday("u1", streak, 3100)
	if err != nil {
		t.Fatalf("IsSatisfiedToday: %v", err)
	}
	if !ok {
		t.Error("3 qualifying days in a row should satisfy the 3-day streak")
	}
}

func TestEvaluator_ConsecutiveGapBreaksStreak(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	streak := mustLookup(t, 3000, true, 3)

	// Day 1 qualifies, day 2 is skipped entirely.
	if err := eval.SyncSimpleToday("u1", 3500); err != nil {
		t.Fatalf("sync day1: %v", err)
	}

	clock.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	ok, err := eval.IsSatisfiedToday("u1", streak, 3100)
	if err != nil {
		t.Fatalf("IsSatisfiedToday: %v", err)
	}
	if ok {
		t.Error("a missing day must break the streak")
	}
}

func TestEvaluator_ConsecutiveTodayBelowGoal(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	streak := mustLookup(t, 5000, true, 7)

	// Six qualifying days in a row, then today falls short of the goal.
	for day := 9; day <= 14; day++ {
		clock.now = time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)
		if err := eval.SyncSimpleToday("u1", 5200); err != nil {
			t.Fatalf("sync day %d: %v", day, err)
		}
	}

	clock.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	ok, err := eval.IsSatisfiedToday("u1", streak, 4000)
	if err != nil {
		t.Fatalf("IsSatisfiedToday: %v", err)
	}
	if ok {
		t.Error("today under the goal must leave the streak unsatisfied")
	}
}

func TestEvaluator_ConsecutiveCountsHigherGoals(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	streak := mustLookup(t, 3000, true, 3)

	// Each day only has the 4000 and 6000 completions recorded; a day
	// qualifies for a 3000-streak through any goal >= 3000.
	for day := 13; day <= 15; day++ {
		clock.now = time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)
		if err := eval.SyncSimpleToday("u1", 6500); err != nil {
			t.Fatalf("sync day %d: %v", day, err)
		}
	}

	ok, err := eval.IsSatisfiedToday("u1", streak, 6500)
	if err != nil {
		t.Fatalf("IsSatisfiedToday: %v", err)
	}
	if !ok {
		t.Error("days with higher-goal completions should count toward the streak")
	}
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

func TestLedger_ClaimRequiresCompletion(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	ledger := NewLedger(db, clock)

	_, err := ledger.Claim("u1", "500_2025-06-15")
	if err != domain.ErrChallengeNotCompleted {
		t.Errorf("err = %v, want ErrChallengeNotCompleted", err)
	}
}

func TestLedger_ClaimOnce(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	ledger := NewLedger(db, clock)
	def := mustLookup(t, 500, false, 0)

	if _, err := eval.RecordCompletionIfSatisfied("u1", def, 800); err != nil {
		t.Fatalf("record: %v", err)
	}

	occ := OccurrenceFor(def, clock.Today())
	newly, err := ledger.Claim("u1", occ.ID())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !newly {
		t.Error("first claim should be new")
	}

	newly, _ = ledger.Claim("u1", occ.ID())
	if newly {
		t.Error("second claim must be a no-op")
	}
}

func TestLedger_AvailableFiltersClaimed(t *testing.T) {
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	eval := NewEvaluator(db, clock)
	ledger := NewLedger(db, clock)
	def := mustLookup(t, 500, false, 0)

	if _, err := eval.RecordCompletionIfSatisfied("u1", def, 800); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := ledger.Claim("u1", OccurrenceFor(def, clock.Today()).ID()); err != nil {
		t.Fatalf("claim: %v", err)
	}

	defs, err := ledger.Available("u1", Catalog())
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(defs) != len(catalog)-1 {
		t.Errorf("available = %d, want %d", len(defs), len(catalog)-1)
	}
	for _, d := range defs {
		if d.StepGoal == 500 && !d.IsConsecutive {
			t.Error("claimed challenge must not be listed")
		}
	}
}

// ─── Aggregates ─────────────────────────────────────────────────────────────

func TestAggregates(t *testing.T) {
	recs := []domain.CompletionRecord{
		{OccurrenceID: "500_2025-06-14", StepGoal: 500, Date: "2025-06-14"},
		{OccurrenceID: "500_2025-06-15", StepGoal: 500, Date: "2025-06-15"},
		{OccurrenceID: "1000_2025-06-15", StepGoal: 1000, Date: "2025-06-15"},
	}

	if got := TotalDistinctGoals(recs); got != 2 {
		t.Errorf("distinct goals = %d, want 2", got)
	}
	if got := TodayCompletedCount(recs, "2025-06-15"); got != 2 {
		t.Errorf("today count = %d, want 2", got)
	}
	if got := LevelFor(recs); got != 3 {
		t.Errorf("level = %d, want 3", got)
	}
	if got := LevelFor(nil); got != 1 {
		t.Errorf("empty level = %d, want 1", got)
	}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

func TestEngine_ClaimGrantsOnce(t *testing.T) {
	engine, _, steps, sink, ents := newTestEngine(t)
	steps.steps = 1500
	def := mustLookup(t, 1000, false, 0)

	res, err := engine.AttemptClaim("u1", def)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !res.Claimed {
		t.Fatalf("claim failed, reason = %q", res.Reason)
	}
	if sink.granted != 1 {
		t.Errorf("stickers granted = %d, want 1", sink.granted)
	}
	if len(sink.reasons) != 1 || sink.reasons[0] != def.Title {
		t.Errorf("grant reason = %v, want challenge title", sink.reasons)
	}

	remaining, err := ents.Remaining("u1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != domain.InitialCreationChances+1 {
		t.Errorf("remaining = %d, want %d", remaining, domain.InitialCreationChances+1)
	}

	// Retry grants nothing more.
	res, err = engine.AttemptClaim("u1", def)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if res.Claimed {
		t.Error("second claim must not grant")
	}
	if res.Reason != domain.ReasonAlreadyClaimed {
		t.Errorf("reason = %q, want already_claimed", res.Reason)
	}
	if sink.granted != 1 {
		t.Errorf("stickers after retry = %d, want 1", sink.granted)
	}
}

func TestEngine_ClaimNotSatisfied(t *testing.T) {
	engine, _, steps, sink, _ := newTestEngine(t)
	steps.steps = 300
	def := mustLookup(t, 1000, false, 0)

	res, err := engine.AttemptClaim("u1", def)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Claimed {
		t.Error("claim must not succeed below the goal")
	}
	if res.Reason != domain.ReasonNotSatisfied {
		t.Errorf("reason = %q, want not_satisfied", res.Reason)
	}
	if sink.granted != 0 {
		t.Errorf("stickers = %d, want 0", sink.granted)
	}
}

func TestEngine_NextDayOccurrenceClaimableAgain(t *testing.T) {
	engine, clock, steps, sink, _ := newTestEngine(t)
	steps.steps = 1200
	def := mustLookup(t, 1000, false, 0)

	res, _ := engine.AttemptClaim("u1", def)
	if !res.Claimed {
		t.Fatalf("day 1 claim failed, reason = %q", res.Reason)
	}

	clock.now = clock.now.AddDate(0, 0, 1)
	res, err := engine.AttemptClaim("u1", def)
	if err != nil {
		t.Fatalf("day 2 claim: %v", err)
	}
	if !res.Claimed {
		t.Errorf("new day is a new occurrence, reason = %q", res.Reason)
	}
	if sink.granted != 2 {
		t.Errorf("stickers = %d, want 2", sink.granted)
	}
}

func TestEngine_ConsecutiveClaimFlow(t *testing.T) {
	engine, clock, steps, sink, _ := newTestEngine(t)
	streak := mustLookup(t, 3000, true, 3)

	// Two prior qualifying days recorded via step reports.
	clock.now = time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	if err := engine.ReportSteps("u1", 3200); err != nil {
		t.Fatalf("report day1: %v", err)
	}
	clock.now = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	if err := engine.ReportSteps("u1", 3400); err != nil {
		t.Fatalf("report day2: %v", err)
	}

	// Day 3: claim without an explicit step report for today — the claim
	// itself records today's qualifying completions before the walk.
	clock.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	steps.steps = 3100
	res, err := engine.AttemptClaim("u1", streak)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !res.Claimed {
		t.Fatalf("streak claim failed, reason = %q", res.Reason)
	}
	if res.Stickers != 2 || res.Chances != 2 {
		t.Errorf("rewards = (%d, %d), want (2, 2)", res.Stickers, res.Chances)
	}
	if sink.granted != 2 {
		t.Errorf("stickers = %d, want 2", sink.granted)
	}
}

func TestEngine_ReportSteps_RecordsSimpleCompletions(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)

	if err := engine.ReportSteps("u1", 4500); err != nil {
		t.Fatalf("report: %v", err)
	}

	p, err := engine.Profile("u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// Simple goals 500/1000/2000/4000 plus the 3000 and 4500 streak day
	// legs are all satisfied at 4500 steps.
	if p.DistinctGoals != 6 {
		t.Errorf("distinct goals = %d, want 6", p.DistinctGoals)
	}
	if p.Level != 7 {
		t.Errorf("level = %d, want 7", p.Level)
	}
}

func TestEngine_ReportSteps_Negative(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)

	if err := engine.ReportSteps("u1", -5); err != domain.ErrNegativeSteps {
		t.Errorf("err = %v, want ErrNegativeSteps", err)
	}
}

func TestEngine_ReportSteps_LowerCountKeepsCompletions(t *testing.T) {
	// Nil step source: the engine reads back its own stored snapshots.
	db := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)}
	ents := entitlement.NewManager(db, clock)
	engine := NewEngine(db, clock, ents, &countingSink{}, nil)

	if err := engine.ReportSteps("u1", 2500); err != nil {
		t.Fatalf("report: %v", err)
	}
	// A revised, lower count must never un-complete anything.
	if err := engine.ReportSteps("u1", 100); err != nil {
		t.Fatalf("report lower: %v", err)
	}

	p, err := engine.Profile("u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.DistinctGoals != 3 {
		t.Errorf("distinct goals = %d, want 3 (completions are immutable)", p.DistinctGoals)
	}
	if p.TodaySteps != 100 {
		t.Errorf("today steps = %d, want the latest snapshot 100", p.TodaySteps)
	}
}

func TestEngine_History(t *testing.T) {
	engine, clock, _, _, _ := newTestEngine(t)

	clock.now = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	engine.ReportSteps("u1", 1500)
	clock.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	engine.ReportSteps("u1", 600)

	history, err := engine.History("u1", 30)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history days = %d, want 2", len(history))
	}
	if history[0].Date != "2025-06-15" {
		t.Errorf("first day = %q, want newest first", history[0].Date)
	}
	if len(history[0].Goals) != 1 || history[0].Goals[0] != 500 {
		t.Errorf("2025-06-15 goals = %v, want [500]", history[0].Goals)
	}
	if len(history[1].Goals) != 2 {
		t.Errorf("2025-06-14 goals = %v, want [500 1000]", history[1].Goals)
	}
}

func TestEngine_ResetAccount(t *testing.T) {
	engine, _, steps, _, ents := newTestEngine(t)
	steps.steps = 1500

	def := mustLookup(t, 1000, false, 0)
	if res, _ := engine.AttemptClaim("u1", def); !res.Claimed {
		t.Fatal("setup claim failed")
	}

	if err := engine.ResetAccount("u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	p, err := engine.Profile("u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Level != 1 || p.DistinctGoals != 0 {
		t.Errorf("profile after reset = %+v, want fresh", p)
	}

	remaining, err := ents.Remaining("u1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != domain.InitialCreationChances {
		t.Errorf("remaining after reset = %d, want re-seeded %d", remaining, domain.InitialCreationChances)
	}

	// The occurrence is claimable again after the wipe.
	res, err := engine.AttemptClaim("u1", def)
	if err != nil {
		t.Fatalf("claim after reset: %v", err)
	}
	if !res.Claimed {
		t.Errorf("claim after reset failed, reason = %q", res.Reason)
	}
}

func TestEngine_BlankUserRejected(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t)

	if _, err := engine.ListChallenges(""); err != domain.ErrNotAuthenticated {
		t.Errorf("list err = %v, want ErrNotAuthenticated", err)
	}
	if err := engine.ReportSteps("", 100); err != domain.ErrNotAuthenticated {
		t.Errorf("report err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := engine.AttemptClaim("", catalog[0]); err != domain.ErrNotAuthenticated {
		t.Errorf("claim err = %v, want ErrNotAuthenticated", err)
	}
}
