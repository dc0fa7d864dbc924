// Package queue defines the booking events exchanged over RabbitMQ and the
// consumer that turns them into an audit log.
package queue

// BookingQueueName is the durable queue booking events are published to.
const BookingQueueName = "booking.events"

// Booking event types.
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
)

// BookingEvent is published after a booking was written.  It carries
// enough for downstream consumers to log or notify without reading the
// database.  PreviousRoomID is zero for created bookings.
type BookingEvent struct {
	EventID        string `json:"event_id"`
	Type           string `json:"type"`
	BookingID      int64  `json:"booking_id"`
	UserID         int64  `json:"user_id"`
	RoomID         int64  `json:"room_id"`
	PreviousRoomID int64  `json:"previous_room_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
