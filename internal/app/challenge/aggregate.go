package challenge

import "github.com/apukou/petapd/internal/domain"

// Aggregates are pure functions over the completion record set. The
// presentation layer reads them for the profile screen; none of them
// mutate anything.

// TotalDistinctGoals counts the distinct step goals ever completed,
// across all dates. Feeds the level calculation.
func TotalDistinctGoals(recs []domain.CompletionRecord) int {
	seen := make(map[int]bool, len(recs))
	for _, r := range recs {
		seen[r.StepGoal] = true
	}
	return len(seen)
}

// TodayCompletedCount counts the records whose date token equals today.
func TodayCompletedCount(recs []domain.CompletionRecord, today string) int {
	n := 0
	for _, r := range recs {
		if r.Date == today {
			n++
		}
	}
	return n
}

// LevelFor derives the user level from completion history:
// distinct goals completed + 1, floor 1.
func LevelFor(recs []domain.CompletionRecord) int {
	level := TotalDistinctGoals(recs) + 1
	if level < 1 {
		level = 1
	}
	return level
}
