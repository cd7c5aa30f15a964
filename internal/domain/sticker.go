package domain

import "time"

// StickerSource records how a sticker entered the album.
type StickerSource string

const (
	SourceCreated StickerSource = "created" // user-made in the editor
	SourceReward  StickerSource = "reward"  // granted by a challenge claim
)

// Sticker is the entitlement-relevant subset of an album entry.
// ConsumedChance is fixed at creation time: whether this sticker spent a
// creation chance is decided by the slot it occupied when created, never
// re-derived from slot occupancy at deletion time.
type Sticker struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Slot           int           `json:"slot"`
	ConsumedChance bool          `json:"consumed_chance"`
	Source         StickerSource `json:"source"`
	Reason         string        `json:"reason,omitempty"` // e.g. the challenge title for rewards
	CreatedAt      time.Time     `json:"created_at"`
}

// StepSnapshot is today's cumulative step count for one user.
// Monotonically non-decreasing within a day, but the external source may
// revise it across restarts.
type StepSnapshot struct {
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Steps     int       `json:"steps"`
	UpdatedAt time.Time `json:"updated_at"`
}
