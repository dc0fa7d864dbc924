package model

import "time"

// Booking links a user to the hotel room they reserved for the event.
// A booking is created once and afterwards only its room may change.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user that owns the booking.
//	RoomID    – room currently reserved.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last room change.
type Booking struct {
	ID        int64     `db:"id" json:"id"`                // bookings.id
	UserID    int64     `db:"user_id" json:"userId"`       // bookings.user_id
	RoomID    int64     `db:"room_id" json:"roomId"`       // bookings.room_id
	CreatedAt time.Time `db:"created_at" json:"createdAt"` // bookings.created_at
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"` // bookings.updated_at
}

// BookingWithRoom is a booking joined with the room it references.  It is
// what a user sees when asking for their current booking.
type BookingWithRoom struct {
	Booking
	Room Room
}
