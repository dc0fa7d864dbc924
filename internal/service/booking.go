// Package service holds the booking rules: who may book which room and
// when a room is full.  Every rejection is a *Error; anything else returned
// is an infrastructure failure.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/event-hotel-booking/internal/metrics"
	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// ErrRoomBusy is returned when the room lock could not be taken in time.
// It is not a rule violation; the client may retry.
var ErrRoomBusy = errors.New("room is busy, try again")

// BookingStore persists bookings.
type BookingStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.BookingWithRoom, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Create(ctx context.Context, userID, roomID int64) (*model.Booking, error)
	UpdateRoom(ctx context.Context, id, roomID int64) (*model.Booking, error)
}

// AvailabilityChecker is implemented by *RoomAvailability.
type AvailabilityChecker interface {
	FindRoom(ctx context.Context, roomID int64) (*model.Room, error)
	Occupancy(ctx context.Context, roomID int64) (int, error)
	IsFull(room *model.Room, occupancy int) bool
}

// EligibilityChecker is implemented by *EligibilityValidator.
type EligibilityChecker interface {
	CheckHotelEligibility(ctx context.Context, userID int64) (*Eligibility, error)
}

// RoomLocker serializes the capacity check and the write for one room.
// The returned function releases the lock.
type RoomLocker interface {
	Lock(ctx context.Context, roomID int64) (func() error, error)
}

// EventPublisher announces written bookings.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService orders the availability, eligibility and ownership checks
// in front of every booking write.  Checks run before any write, so a
// rejected request leaves no state behind.
type BookingService struct {
	store        BookingStore
	availability AvailabilityChecker
	eligibility  EligibilityChecker
	locker       RoomLocker
	publisher    EventPublisher
	log          *zap.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewBookingService wires the rule engine.  A nil locker falls back to an
// in-process LocalRoomLocker, a nil publisher disables events, and a nil
// logger or metrics records nothing.
func NewBookingService(
	store BookingStore,
	availability AvailabilityChecker,
	eligibility EligibilityChecker,
	locker RoomLocker,
	publisher EventPublisher,
	log *zap.Logger,
	m *metrics.Metrics,
) *BookingService {
	if store == nil || availability == nil || eligibility == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if locker == nil {
		locker = NewLocalRoomLocker()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		store:        store,
		availability: availability,
		eligibility:  eligibility,
		locker:       locker,
		publisher:    publisher,
		log:          log,
		metrics:      m,
		now:          time.Now,
	}
}

// GetBooking returns the user's booking together with its room.  Should a
// user hold several bookings, the oldest one is returned.
func (s *BookingService) GetBooking(ctx context.Context, userID int64) (b *model.BookingWithRoom, err error) {
	defer func() { s.observe("get", userID, err) }()

	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNoBooking
	}
	return &bookings[0], nil
}

// CreateBooking books roomID for userID.  Checks, in order: a room was
// given, the room exists, the user's ticket allows a hotel, the room is
// not full.
func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID int64) (b *model.Booking, err error) {
	defer func() { s.observe("create", userID, err) }()

	if roomID == 0 {
		return nil, ErrRoomRequired
	}
	room, err := s.availability.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.eligibility.CheckHotelEligibility(ctx, userID); err != nil {
		return nil, err
	}

	b, err = s.writeLocked(ctx, room, func() (*model.Booking, error) {
		created, err := s.store.Create(ctx, userID, room.ID)
		if err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.BookingEvent{
		Type:      queue.BookingCreated,
		BookingID: b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
	})
	return b, nil
}

// UpdateBooking moves the user's booking to newRoomID.  Checks, in order: a
// room was given, the booking exists, it belongs to the user, the room
// exists, the room is not full.  The ticket is not checked again: it was
// checked when the booking was created.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, bookingID, newRoomID int64) (b *model.Booking, err error) {
	defer func() { s.observe("update", userID, err) }()

	if newRoomID == 0 {
		return nil, ErrRoomRequired
	}
	current, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if current.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	room, err := s.availability.FindRoom(ctx, newRoomID)
	if err != nil {
		return nil, err
	}

	b, err = s.writeLocked(ctx, room, func() (*model.Booking, error) {
		updated, err := s.store.UpdateRoom(ctx, current.ID, room.ID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("update booking: %w", err)
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.BookingEvent{
		Type:           queue.BookingUpdated,
		BookingID:      b.ID,
		UserID:         b.UserID,
		RoomID:         b.RoomID,
		PreviousRoomID: current.RoomID,
	})
	return b, nil
}

// writeLocked runs the capacity check and write under the room lock.  The
// lock is released before it returns, so nothing after the write (event
// publishing) holds the room.
func (s *BookingService) writeLocked(ctx context.Context, room *model.Room, write func() (*model.Booking, error)) (*model.Booking, error) {
	unlock, err := s.lockRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureNotFull(ctx, room); err != nil {
		return nil, err
	}
	return write()
}

func (s *BookingService) ensureNotFull(ctx context.Context, room *model.Room) error {
	occupancy, err := s.availability.Occupancy(ctx, room.ID)
	if err != nil {
		return err
	}
	if s.availability.IsFull(room, occupancy) {
		return ErrRoomFull
	}
	return nil
}

// lockRoom takes the room lock and returns a release func that never fails
// the request; release errors are only logged.
func (s *BookingService) lockRoom(ctx context.Context, roomID int64) (func(), error) {
	start := s.now()
	release, err := s.locker.Lock(ctx, roomID)
	waited := s.now().Sub(start).Seconds()
	if err != nil {
		s.metrics.ObserveLockWait("failed", waited)
		if errors.Is(err, repository.ErrLockNotAcquired) {
			return nil, ErrRoomBusy
		}
		// The caller gave up while waiting: not a server failure.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrRoomBusy, err)
		}
		return nil, fmt.Errorf("lock room %d: %w", roomID, err)
	}
	s.metrics.ObserveLockWait("acquired", waited)
	return func() {
		if err := release(); err != nil {
			s.log.Warn("room lock release failed", zap.Int64("room_id", roomID), zap.Error(err))
		}
	}, nil
}

// publish sends ev and only logs failures: the booking is already stored.
func (s *BookingService) publish(ctx context.Context, ev queue.BookingEvent) {
	if s.publisher == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = s.now().UTC().Format(time.RFC3339)
	if err := s.publisher.PublishBookingEvent(ctx, ev); err != nil {
		s.log.Warn("booking event not published",
			zap.String("type", ev.Type),
			zap.Int64("booking_id", ev.BookingID),
			zap.Error(err),
		)
	}
}

func (s *BookingService) observe(op string, userID int64, err error) {
	switch e, ok := AsError(err); {
	case err == nil:
		s.metrics.ObserveBooking(op, "success")
		s.log.Debug("booking "+op+" succeeded", zap.Int64("user_id", userID))
	case ok:
		s.metrics.ObserveBooking(op, e.Kind.String())
		s.log.Info("booking "+op+" rejected",
			zap.Int64("user_id", userID),
			zap.String("kind", e.Kind.String()),
			zap.String("reason", e.Message),
		)
	default:
		if errors.Is(err, ErrRoomBusy) {
			s.metrics.ObserveBooking(op, "busy")
			s.log.Warn("booking "+op+" gave up on room lock", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		s.metrics.ObserveBooking(op, "error")
		s.log.Error("booking "+op+" failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
