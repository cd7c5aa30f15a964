package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// "Not satisfied" and "already claimed" are NOT here: those are normal
// negative ClaimResult values, never errors.

var (
	// Identity errors
	ErrNotAuthenticated = errors.New("no authenticated user")

	// Challenge errors
	ErrChallengeNotCompleted = errors.New("challenge not completed, reward cannot be claimed")
	ErrUnknownChallenge      = errors.New("challenge not in catalog")

	// Entitlement errors
	ErrNoCreationChances  = errors.New("no creation chances remaining")
	ErrCorruptEntitlement = errors.New("entitlement counters violate used <= total invariant")

	// Sticker errors
	ErrStickerNotFound = errors.New("sticker not found")

	// Step errors
	ErrNegativeSteps = errors.New("step count cannot be negative")
)
