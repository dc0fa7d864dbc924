package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// RoomFinder looks rooms up by id.
type RoomFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Room, error)
}

// OccupancyCounter counts bookings referencing a room.
type OccupancyCounter interface {
	CountByRoom(ctx context.Context, roomID int64) (int, error)
}

// RoomAvailability answers whether a room exists and has space left.
type RoomAvailability struct {
	rooms    RoomFinder
	bookings OccupancyCounter
}

func NewRoomAvailability(rooms RoomFinder, bookings OccupancyCounter) *RoomAvailability {
	return &RoomAvailability{rooms: rooms, bookings: bookings}
}

// FindRoom returns the room or ErrRoomNotFound.
func (a *RoomAvailability) FindRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	room, err := a.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return room, nil
}

// Occupancy returns the number of bookings currently in the room.
func (a *RoomAvailability) Occupancy(ctx context.Context, roomID int64) (int, error) {
	n, err := a.bookings.CountByRoom(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("room occupancy: %w", err)
	}
	return n, nil
}

// IsFull reports whether the room can take no more bookings.  Occupancy
// above capacity also counts as full.
func (a *RoomAvailability) IsFull(room *model.Room, occupancy int) bool {
	return occupancy >= room.Capacity
}
