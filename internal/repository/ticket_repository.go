package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/event-hotel-booking/internal/model"
)

// TicketRepo resolves a user's enrollment, ticket and ticket type.  These
// rows belong to the enrollment and payment flows; bookings only read them.
type TicketRepo struct {
	db *sqlx.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sqlx.DB) *TicketRepo { return &TicketRepo{db: db} }

// EnrollmentByUser returns the user's enrollment or ErrEnrollmentNotFound.
func (r *TicketRepo) EnrollmentByUser(ctx context.Context, userID int64) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := r.db.GetContext(ctx, &e, `SELECT id, user_id FROM enrollments WHERE user_id = ?`, userID); err != nil {
		return nil, notFoundOr(err, ErrEnrollmentNotFound, "get enrollment of user %d", userID)
	}
	return &e, nil
}

// TicketByEnrollment returns the ticket issued for the enrollment or
// ErrTicketNotFound.
func (r *TicketRepo) TicketByEnrollment(ctx context.Context, enrollmentID int64) (*model.Ticket, error) {
	var t model.Ticket
	const q = `SELECT id, enrollment_id, ticket_type_id, status FROM tickets WHERE enrollment_id = ?`
	if err := r.db.GetContext(ctx, &t, q, enrollmentID); err != nil {
		return nil, notFoundOr(err, ErrTicketNotFound, "get ticket of enrollment %d", enrollmentID)
	}
	return &t, nil
}

// TicketTypeByID returns the ticket type or ErrTicketTypeNotFound.
func (r *TicketRepo) TicketTypeByID(ctx context.Context, id int64) (*model.TicketType, error) {
	var tt model.TicketType
	const q = `SELECT id, name, price, is_remote, includes_hotel FROM ticket_types WHERE id = ?`
	if err := r.db.GetContext(ctx, &tt, q, id); err != nil {
		return nil, notFoundOr(err, ErrTicketTypeNotFound, "get ticket type %d", id)
	}
	return &tt, nil
}

// notFoundOr maps sql.ErrNoRows to the given sentinel and wraps anything else.
func notFoundOr(err, sentinel error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
