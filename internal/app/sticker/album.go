// Package sticker manages the entitlement-relevant side of the album:
// slot assignment, the initial-free-slot carve-out, chance consumption at
// creation, and restoration at deletion. Rendering and image data live in
// the client, not here.
package sticker

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/apukou/petapd/internal/app/entitlement"
	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Album tracks per-user stickers and mediates every creation through the
// entitlement budget. Whether a sticker consumed a chance is decided by
// the slot it occupies at creation time and persisted on the record;
// deletion consults that stored flag, never the current slot layout.
type Album struct {
	db    *sqlite.DB
	ents  *entitlement.Manager
	clock domain.Clock
}

// NewAlbum creates an album service.
func NewAlbum(db *sqlite.DB, ents *entitlement.Manager, clock domain.Clock) *Album {
	return &Album{db: db, ents: ents, clock: clock}
}

// Create adds a user-made sticker. Slots 0..InitialFreeSlots-1 are exempt:
// unconditionally allowed, budget untouched. Every later slot spends one
// chance and fails with ErrNoCreationChances when the budget is empty.
func (a *Album) Create(userID, name string) (*domain.Sticker, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	slot, err := a.db.NextStickerSlot(userID)
	if err != nil {
		return nil, fmt.Errorf("next slot: %w", err)
	}

	exempt := slot < domain.InitialFreeSlots
	if !exempt {
		if err := a.ents.Consume(userID); err != nil {
			return nil, err
		}
	}

	s := domain.Sticker{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           name,
		Slot:           slot,
		ConsumedChance: !exempt,
		Source:         domain.SourceCreated,
		CreatedAt:      a.clock.Now(),
	}
	if err := a.db.InsertSticker(s); err != nil {
		// The chance is already spent; hand it back rather than strand it.
		if !exempt {
			if rerr := a.ents.Restore(userID); rerr != nil {
				log.Printf("[sticker] restore after failed insert: %v", rerr)
			}
		}
		return nil, fmt.Errorf("insert sticker: %w", err)
	}
	return &s, nil
}

// Delete removes a sticker. If its stored flag says it consumed a chance,
// that chance is restored (floored at zero by the entitlement manager);
// exempt-slot stickers restore nothing.
func (a *Album) Delete(userID, stickerID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	s, err := a.db.GetSticker(userID, stickerID)
	if err != nil {
		return fmt.Errorf("load sticker: %w", err)
	}
	if s == nil {
		return domain.ErrStickerNotFound
	}

	if err := a.db.DeleteSticker(userID, stickerID); err != nil {
		return err
	}

	if s.ConsumedChance {
		if err := a.ents.Restore(userID); err != nil {
			return fmt.Errorf("restore chance: %w", err)
		}
	}
	return nil
}

// List returns the user's album ordered by slot.
func (a *Album) List(userID string) ([]domain.Sticker, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return a.db.ListStickers(userID)
}

// GrantStickers implements domain.StickerGrantSink: reward stickers from a
// challenge claim enter the album without touching the budget.
func (a *Album) GrantStickers(userID string, count int, reason string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	for i := 0; i < count; i++ {
		slot, err := a.db.NextStickerSlot(userID)
		if err != nil {
			return fmt.Errorf("next slot: %w", err)
		}
		s := domain.Sticker{
			ID:        uuid.NewString(),
			UserID:    userID,
			Slot:      slot,
			Source:    domain.SourceReward,
			Reason:    reason,
			CreatedAt: a.clock.Now(),
		}
		if err := a.db.InsertSticker(s); err != nil {
			return fmt.Errorf("insert reward sticker %d: %w", i, err)
		}
	}
	return nil
}

var _ domain.StickerGrantSink = (*Album)(nil)
