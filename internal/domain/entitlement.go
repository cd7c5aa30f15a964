package domain

// Creation-entitlement constants. The first InitialFreeSlots sticker slots
// are exempt from the chance budget entirely; every slot beyond them costs
// one chance.
const (
	InitialCreationChances = 5  // budget seeded at account creation
	DailyChanceGrant       = 1  // added on each new-day rollover
	InitialFreeSlots       = 10 // slot indexes 0..9 never consume a chance
)

// CreationEntitlement is the per-user sticker-creation budget.
// Unused budget carries across days; reward top-ups are uncapped.
type CreationEntitlement struct {
	UserID         string `json:"user_id"`
	DailyUsedCount int    `json:"daily_used_count"`
	TotalChances   int    `json:"total_chances"`
	LastResetDate  string `json:"last_reset_date"` // YYYY-MM-DD
}

// Remaining returns the spendable budget, clamped at zero so corrupted
// state (used > total) degrades to "no chances" instead of going negative.
func (e CreationEntitlement) Remaining() int {
	r := e.TotalChances - e.DailyUsedCount
	if r < 0 {
		return 0
	}
	return r
}

// Corrupt reports whether the persisted counters violate the
// used <= total invariant. Remaining() already clamps; this exists so the
// condition can be logged when observed.
func (e CreationEntitlement) Corrupt() bool {
	return e.DailyUsedCount > e.TotalChances
}

// NewEntitlement returns the record seeded at account creation.
func NewEntitlement(userID, today string) CreationEntitlement {
	return CreationEntitlement{
		UserID:         userID,
		DailyUsedCount: 0,
		TotalChances:   InitialCreationChances,
		LastResetDate:  today,
	}
}
