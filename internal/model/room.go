package model

// Room is a hotel room that event attendees can book.  Capacity is the
// number of bookings the room accepts; it is never negative.
//
// Fields:
//
//	ID       – primary key identifier.
//	Name     – display name, unique per hotel.
//	Capacity – maximum number of bookings referencing the room.
//	HotelID  – hotel the room belongs to.
type Room struct {
	ID       int64  `db:"id" json:"id"`             // rooms.id
	Name     string `db:"name" json:"name"`         // rooms.name
	Capacity int    `db:"capacity" json:"capacity"` // rooms.capacity
	HotelID  int64  `db:"hotel_id" json:"hotelId"`  // rooms.hotel_id
}
