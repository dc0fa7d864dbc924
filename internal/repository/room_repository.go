package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// RoomRepo reads the hotel room catalog.  Rooms are managed elsewhere so
// this repository is read-only.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sqlx.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID returns the room with the given id or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	const q = `SELECT id, name, capacity, hotel_id FROM rooms WHERE id = ?`
	if err := r.db.GetContext(ctx, &room, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room %d: %w", id, err)
	}
	return &room, nil
}
