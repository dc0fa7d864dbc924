package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// world is an in-memory stand-in for the MySQL tables the rules read.
type world struct {
	mu          sync.Mutex
	nextID      int64
	rooms       map[int64]model.Room
	bookings    map[int64]model.Booking
	enrollments map[int64]model.Enrollment // by user id
	tickets     map[int64]model.Ticket     // by enrollment id
	types       map[int64]model.TicketType
	writes      int
}

func newWorld() *world {
	return &world{
		rooms:       map[int64]model.Room{},
		bookings:    map[int64]model.Booking{},
		enrollments: map[int64]model.Enrollment{},
		tickets:     map[int64]model.Ticket{},
		types:       map[int64]model.TicketType{},
	}
}

const (
	typeHotel    int64 = 1
	typeNoHotel  int64 = 2
	typeRemote   int64 = 3
	statusUnpaid       = model.TicketStatusReserved
)

func (w *world) withTicketTypes() *world {
	w.types[typeHotel] = model.TicketType{ID: typeHotel, Name: "in person + hotel", Price: 600, IncludesHotel: true}
	w.types[typeNoHotel] = model.TicketType{ID: typeNoHotel, Name: "in person", Price: 250}
	w.types[typeRemote] = model.TicketType{ID: typeRemote, Name: "online", Price: 100, IsRemote: true}
	return w
}

func (w *world) addRoom(id int64, capacity int) {
	w.rooms[id] = model.Room{ID: id, Name: "room", Capacity: capacity, HotelID: 1}
}

// addUser enrolls userID with a ticket of the given type and status.
func (w *world) addUser(userID, ticketType int64, status string) {
	enrollmentID := userID + 1000
	w.enrollments[userID] = model.Enrollment{ID: enrollmentID, UserID: userID}
	w.tickets[enrollmentID] = model.Ticket{ID: userID + 2000, EnrollmentID: enrollmentID, TicketTypeID: ticketType, Status: status}
}

func (w *world) seedBooking(userID, roomID int64) model.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	b := model.Booking{ID: w.nextID, UserID: userID, RoomID: roomID}
	w.bookings[b.ID] = b
	return b
}

func (w *world) writeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// bookingTable implements BookingStore and OccupancyCounter.
type bookingTable struct{ *world }

func (t bookingTable) ListByUser(_ context.Context, userID int64) ([]model.BookingWithRoom, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.BookingWithRoom
	for _, b := range t.bookings {
		if b.UserID == userID {
			out = append(out, model.BookingWithRoom{Booking: b, Room: t.rooms[b.RoomID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t bookingTable) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

func (t bookingTable) CountByRoom(_ context.Context, roomID int64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, b := range t.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (t bookingTable) Create(_ context.Context, userID, roomID int64) (*model.Booking, error) {
	// Widen the check-then-write window so unlocked callers would race.
	time.Sleep(time.Millisecond)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.writes++
	b := model.Booking{ID: t.nextID, UserID: userID, RoomID: roomID}
	t.bookings[b.ID] = b
	return &b, nil
}

func (t bookingTable) UpdateRoom(_ context.Context, id, roomID int64) (*model.Booking, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	t.writes++
	b.RoomID = roomID
	t.bookings[id] = b
	return &b, nil
}

// roomTable implements RoomFinder.
type roomTable struct{ *world }

func (t roomTable) GetByID(_ context.Context, id int64) (*model.Room, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return &r, nil
}

// ticketTable implements EligibilitySource.
type ticketTable struct{ *world }

func (t ticketTable) EnrollmentByUser(_ context.Context, userID int64) (*model.Enrollment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.enrollments[userID]
	if !ok {
		return nil, repository.ErrEnrollmentNotFound
	}
	return &e, nil
}

func (t ticketTable) TicketByEnrollment(_ context.Context, enrollmentID int64) (*model.Ticket, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tk, ok := t.tickets[enrollmentID]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	return &tk, nil
}

func (t ticketTable) TicketTypeByID(_ context.Context, id int64) (*model.TicketType, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tt, ok := t.types[id]
	if !ok {
		return nil, repository.ErrTicketTypeNotFound
	}
	return &tt, nil
}

func newServiceFor(w *world, publisher EventPublisher) *BookingService {
	bookings := bookingTable{w}
	return NewBookingService(
		bookings,
		NewRoomAvailability(roomTable{w}, bookings),
		NewEligibilityValidator(ticketTable{w}),
		nil,
		publisher,
		nil,
		nil,
	)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error {
	return m.Called(ctx, ev).Error(0)
}
