// Package challenge implements the Petap challenge engine: the catalog,
// per-day occurrence identity, satisfaction evaluation (including
// consecutive-day streaks), the reward-claim ledger, and the aggregates
// derived from completion history.
package challenge

import "github.com/apukou/petapd/internal/domain"

// catalog is the fixed set of step challenges. Entries never change at
// runtime; each is addressable by (StepGoal, IsConsecutive, ConsecutiveDays).
var catalog = []domain.ChallengeDefinition{
	{
		StepGoal:              500,
		RewardStickers:        1,
		RewardCreationChances: 1,
		Title:                 "Starter Challenge",
		Description:           "Walk 500 steps to earn 1 sticker and 1 creation chance!",
	},
	{
		StepGoal:              1000,
		RewardStickers:        1,
		RewardCreationChances: 1,
		Title:                 "First Steps",
		Description:           "Walk 1,000 steps to earn 1 sticker and 1 creation chance!",
	},
	{
		StepGoal:              2000,
		RewardStickers:        1,
		RewardCreationChances: 1,
		Title:                 "Walking Challenge",
		Description:           "Walk 2,000 steps to earn 1 sticker and 1 creation chance!",
	},
	{
		StepGoal:              4000,
		RewardStickers:        1,
		RewardCreationChances: 2,
		Title:                 "Active Challenge",
		Description:           "Walk 4,000 steps to earn 1 sticker and 2 creation chances!",
	},
	{
		StepGoal:              6000,
		RewardStickers:        2,
		RewardCreationChances: 2,
		Title:                 "Healthy Challenge",
		Description:           "Walk 6,000 steps to earn 2 stickers and 2 creation chances!",
	},
	{
		StepGoal:              8000,
		RewardStickers:        2,
		RewardCreationChances: 3,
		Title:                 "Fitness Challenge",
		Description:           "Walk 8,000 steps to earn 2 stickers and 3 creation chances!",
	},
	{
		StepGoal:              10000,
		RewardStickers:        3,
		RewardCreationChances: 3,
		Title:                 "Master Challenge",
		Description:           "Walk 10,000 steps to earn 3 stickers and 3 creation chances!",
	},

	// Consecutive challenges
	{
		StepGoal:              3000,
		RewardStickers:        2,
		RewardCreationChances: 2,
		Title:                 "3-Day Streak",
		Description:           "Hit 3,000 steps 3 days in a row for 2 stickers and 2 creation chances!",
		IsConsecutive:         true,
		ConsecutiveDays:       3,
	},
	{
		StepGoal:              5000,
		RewardStickers:        3,
		RewardCreationChances: 3,
		Title:                 "7-Day Streak",
		Description:           "Hit 5,000 steps 7 days in a row for 3 stickers and 3 creation chances!",
		IsConsecutive:         true,
		ConsecutiveDays:       7,
	},
	{
		StepGoal:              4500,
		RewardStickers:        4,
		RewardCreationChances: 4,
		Title:                 "2-Week Streak",
		Description:           "Hit 4,500 steps 14 days in a row for 4 stickers and 4 creation chances!",
		IsConsecutive:         true,
		ConsecutiveDays:       14,
	},
	{
		StepGoal:              4000,
		RewardStickers:        5,
		RewardCreationChances: 5,
		Title:                 "1-Month Streak",
		Description:           "Hit 4,000 steps 31 days in a row for 5 stickers and 5 creation chances!",
		IsConsecutive:         true,
		ConsecutiveDays:       31,
	},
}

// Catalog returns all challenge definitions.
func Catalog() []domain.ChallengeDefinition {
	out := make([]domain.ChallengeDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds the catalog entry addressed by the given key fields.
func Lookup(stepGoal int, consecutive bool, consecutiveDays int) (domain.ChallengeDefinition, error) {
	for _, def := range catalog {
		if def.StepGoal == stepGoal && def.IsConsecutive == consecutive {
			if !consecutive || def.ConsecutiveDays == consecutiveDays {
				return def, nil
			}
		}
	}
	return domain.ChallengeDefinition{}, domain.ErrUnknownChallenge
}
