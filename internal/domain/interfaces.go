package domain

import "time"

// ─── Collaborator Interfaces ────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Clock supplies the local calendar day. Injected everywhere a "today"
// decision is made so tests can pin the date.
type Clock interface {
	Now() time.Time
	Today() string // YYYY-MM-DD, local calendar
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

func (f clockFunc) Today() string { return f().Format(DateLayout) }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return clockFunc(time.Now) }

// FixedClock returns a Clock frozen at t. Test helper.
func FixedClock(t time.Time) Clock {
	return clockFunc(func() time.Time { return t })
}

// StepSource produces the current step count for one user's today.
type StepSource interface {
	TodaySteps(userID string) (int, error)
}

// StickerGrantSink receives the sticker side effects of a successful claim.
// The engine only reports "grant N stickers for this reason"; rendering and
// album layout are the sink's concern.
type StickerGrantSink interface {
	GrantStickers(userID string, count int, reason string) error
}
