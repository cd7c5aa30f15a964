package sqlite

import (
	"database/sql"
	"time"

	"github.com/apukou/petapd/internal/domain"
)

// ─── Stickers ───────────────────────────────────────────────────────────────

// InsertSticker stores a new album entry.
func (d *DB) InsertSticker(s domain.Sticker) error {
	_, err := d.db.Exec(
		`INSERT INTO stickers (id, user_id, name, slot, consumed_chance, source, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Name, s.Slot, s.ConsumedChance, string(s.Source), s.Reason, s.CreatedAt.Unix(),
	)
	return err
}

// GetSticker retrieves one sticker owned by the user.
func (d *DB) GetSticker(userID, id string) (*domain.Sticker, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, name, slot, consumed_chance, source, reason, created_at
		 FROM stickers WHERE user_id = ? AND id = ?`, userID, id,
	)
	return scanSticker(row)
}

// ListStickers returns the user's album ordered by slot.
func (d *DB) ListStickers(userID string) ([]domain.Sticker, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, name, slot, consumed_chance, source, reason, created_at
		 FROM stickers WHERE user_id = ? ORDER BY slot ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stickers []domain.Sticker
	for rows.Next() {
		s, err := scanSticker(rows)
		if err != nil {
			return nil, err
		}
		stickers = append(stickers, *s)
	}
	return stickers, rows.Err()
}

// DeleteSticker removes an album entry.
func (d *DB) DeleteSticker(userID, id string) error {
	result, err := d.db.Exec(
		`DELETE FROM stickers WHERE user_id = ? AND id = ?`, userID, id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrStickerNotFound
	}
	return nil
}

// NextStickerSlot returns the lowest unoccupied slot index, starting at 0.
// Freed slots are refilled before the album grows, so deleting one of the
// initial free slots keeps the replacement creation exempt.
func (d *DB) NextStickerSlot(userID string) (int, error) {
	var next int
	err := d.db.QueryRow(
		`SELECT MIN(candidate) FROM (
			SELECT 0 AS candidate
			 WHERE NOT EXISTS (SELECT 1 FROM stickers WHERE user_id = ? AND slot = 0)
			UNION ALL
			SELECT s.slot + 1 FROM stickers s
			 WHERE s.user_id = ?
			   AND NOT EXISTS (
				SELECT 1 FROM stickers s2 WHERE s2.user_id = ? AND s2.slot = s.slot + 1
			   )
		 )`,
		userID, userID, userID,
	).Scan(&next)
	return next, err
}

func scanSticker(s scanner) (*domain.Sticker, error) {
	var st domain.Sticker
	var source string
	var createdAt int64

	err := s.Scan(&st.ID, &st.UserID, &st.Name, &st.Slot, &st.ConsumedChance, &source, &st.Reason, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	st.Source = domain.StickerSource(source)
	st.CreatedAt = time.Unix(createdAt, 0)
	return &st, nil
}
