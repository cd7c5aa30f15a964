// Package domain holds the Petap core types.
// Challenges are step-count goals evaluated once per local calendar day;
// consecutive challenges additionally require an unbroken run of prior days.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DateLayout is the calendar-day format used in occurrence ids and
// persisted records. Local calendar day, never a timestamp.
const DateLayout = "2006-01-02"

// ChallengeDefinition is one catalog entry. Definitions are fixed at
// process start and addressable by (StepGoal, IsConsecutive, ConsecutiveDays).
type ChallengeDefinition struct {
	StepGoal              int    `json:"step_goal"`
	RewardStickers        int    `json:"reward_stickers"`
	RewardCreationChances int    `json:"reward_creation_chances"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	IsConsecutive         bool   `json:"is_consecutive"`
	ConsecutiveDays       int    `json:"consecutive_days,omitempty"`
}

// Occurrence is the date-scoped occurrence of a challenge definition.
// It is derived, never stored as its own entity — only its ID() string is
// used as the lookup key into completion and claim sets.
type Occurrence struct {
	StepGoal        int
	Date            string // YYYY-MM-DD
	Consecutive     bool
	ConsecutiveDays int
}

const consecutiveMarker = "consecutive"

// ID renders the occurrence key. The token layout is byte-compatible with
// the persisted data of the original product:
//
//	simple:      "{goal}_{date}"
//	consecutive: "{goal}_{date}_consecutive_{days}"
func (o Occurrence) ID() string {
	if o.Consecutive {
		return fmt.Sprintf("%d_%s_%s_%d", o.StepGoal, o.Date, consecutiveMarker, o.ConsecutiveDays)
	}
	return fmt.Sprintf("%d_%s", o.StepGoal, o.Date)
}

// ParseOccurrence decodes an occurrence id. Parsing lives here and nowhere
// else — consumers must not re-split ids ad hoc.
func ParseOccurrence(id string) (Occurrence, error) {
	parts := strings.Split(id, "_")

	var o Occurrence
	switch len(parts) {
	case 2:
	case 4:
		if parts[2] != consecutiveMarker {
			return o, fmt.Errorf("occurrence %q: unknown marker %q", id, parts[2])
		}
		days, err := strconv.Atoi(parts[3])
		if err != nil {
			return o, fmt.Errorf("occurrence %q: bad day count: %w", id, err)
		}
		o.Consecutive = true
		o.ConsecutiveDays = days
	default:
		return o, fmt.Errorf("occurrence %q: expected 2 or 4 tokens, got %d", id, len(parts))
	}

	goal, err := strconv.Atoi(parts[0])
	if err != nil {
		return o, fmt.Errorf("occurrence %q: bad step goal: %w", id, err)
	}
	o.StepGoal = goal
	o.Date = parts[1]
	return o, nil
}

// CompletionRecord is one persisted "this occurrence's condition was
// satisfied on this day" entry. Immutable once written; removed only by a
// full account data reset.
type CompletionRecord struct {
	OccurrenceID string `json:"occurrence_id"`
	StepGoal     int    `json:"step_goal"`
	Date         string `json:"date"`
}

// ClaimReason explains a negative AttemptClaim outcome. Both values are
// normal results, not errors.
type ClaimReason string

const (
	ReasonAlreadyClaimed ClaimReason = "already_claimed"
	ReasonNotSatisfied   ClaimReason = "not_satisfied"
)

// ClaimResult is the outcome of a reward claim attempt.
type ClaimResult struct {
	Claimed  bool        `json:"claimed"`
	Reason   ClaimReason `json:"reason,omitempty"`
	Stickers int         `json:"stickers"`
	Chances  int         `json:"chances"`
}

// ChallengeStatus is a definition annotated with today's evaluation state,
// as shown to the presentation layer.
type ChallengeStatus struct {
	Definition ChallengeDefinition `json:"definition"`
	Satisfied  bool                `json:"satisfied"`
	Completed  bool                `json:"completed"`
}

// HistoryDay groups the step goals completed on one calendar day.
type HistoryDay struct {
	Date  string `json:"date"`
	Goals []int  `json:"goals"`
}
