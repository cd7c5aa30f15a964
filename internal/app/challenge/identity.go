package challenge

import "github.com/apukou/petapd/internal/domain"

// OccurrenceFor derives the date-scoped occurrence of a definition.
// Pure: two calls on the same calendar day always agree, regardless of
// time-of-day.
func OccurrenceFor(def domain.ChallengeDefinition, today string) domain.Occurrence {
	o := domain.Occurrence{
		StepGoal: def.StepGoal,
		Date:     today,
	}
	if def.IsConsecutive {
		o.Consecutive = true
		o.ConsecutiveDays = def.ConsecutiveDays
	}
	return o
}
