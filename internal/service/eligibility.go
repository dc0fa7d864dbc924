package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

// EligibilitySource resolves the chain user -> enrollment -> ticket -> type.
type EligibilitySource interface {
	EnrollmentByUser(ctx context.Context, userID int64) (*model.Enrollment, error)
	TicketByEnrollment(ctx context.Context, enrollmentID int64) (*model.Ticket, error)
	TicketTypeByID(ctx context.Context, id int64) (*model.TicketType, error)
}

// Eligibility is what a successful check resolved along the way.
type Eligibility struct {
	Ticket     *model.Ticket
	TicketType *model.TicketType
}

// EligibilityValidator decides whether a user's ticket entitles them to a
// hotel room at all.
type EligibilityValidator struct {
	source EligibilitySource
}

func NewEligibilityValidator(source EligibilitySource) *EligibilityValidator {
	return &EligibilityValidator{source: source}
}

// CheckHotelEligibility runs the ticket checks in order and stops at the
// first failure: the ticket must be paid, in-person and include the hotel.
func (v *EligibilityValidator) CheckHotelEligibility(ctx context.Context, userID int64) (*Eligibility, error) {
	enrollment, err := v.source.EnrollmentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("resolve enrollment: %w", err)
	}

	ticket, err := v.source.TicketByEnrollment(ctx, enrollment.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("resolve ticket: %w", err)
	}
	if !ticket.IsPaid() {
		return nil, ErrPaymentRequired
	}

	ticketType, err := v.source.TicketTypeByID(ctx, ticket.TicketTypeID)
	if err != nil {
		// A ticket pointing at a missing type is broken data, not a user error.
		return nil, fmt.Errorf("resolve ticket type: %w", err)
	}
	if ticketType.IsRemote {
		return nil, ErrRemoteEvent
	}
	if !ticketType.IncludesHotel {
		return nil, ErrHotelNotIncluded
	}

	return &Eligibility{Ticket: ticket, TicketType: ticketType}, nil
}
