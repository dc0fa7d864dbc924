package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  It never deletes rows:
// a booking is inserted once and afterwards only its room_id changes.
type BookingRepo struct {
	db *sqlx.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

const selectBooking = `SELECT id, user_id, room_id, created_at, updated_at FROM bookings`

// bookingRoomRow mirrors the join of bookings and rooms used by ListByUser.
type bookingRoomRow struct {
	model.Booking
	RoomName     string `db:"room_name"`
	RoomCapacity int    `db:"room_capacity"`
	RoomHotelID  int64  `db:"room_hotel_id"`
}

// ListByUser returns every booking of the user joined with its room, oldest
// first.  An empty slice means the user has no booking.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]model.BookingWithRoom, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
                      r.name AS room_name, r.capacity AS room_capacity, r.hotel_id AS room_hotel_id
               FROM bookings b
               JOIN rooms r ON r.id = b.room_id
               WHERE b.user_id = ?
               ORDER BY b.id`
	var rows []bookingRoomRow
	if err := r.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, err)
	}
	out := make([]model.BookingWithRoom, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.BookingWithRoom{
			Booking: row.Booking,
			Room: model.Room{
				ID:       row.RoomID,
				Name:     row.RoomName,
				Capacity: row.RoomCapacity,
				HotelID:  row.RoomHotelID,
			},
		})
	}
	return out, nil
}

// GetByID returns the booking with the given id or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.GetContext(ctx, &b, selectBooking+` WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return &b, nil
}

// CountByRoom returns how many bookings currently reference the room.
func (r *BookingRepo) CountByRoom(ctx context.Context, roomID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookings WHERE room_id = ?`, roomID); err != nil {
		return 0, fmt.Errorf("count bookings of room %d: %w", roomID, err)
	}
	return n, nil
}

// Create inserts a booking and reads it back so that the generated id and
// timestamps are populated.
func (r *BookingRepo) Create(ctx context.Context, userID, roomID int64) (*model.Booking, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`, userID, roomID)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return r.GetByID(ctx, id)
}

// UpdateRoom moves the booking to another room and returns the new state.
// ErrBookingNotFound is returned when the booking vanished in between.
func (r *BookingRepo) UpdateRoom(ctx context.Context, id, roomID int64) (*model.Booking, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE bookings SET room_id = ? WHERE id = ?`, roomID, id); err != nil {
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}
