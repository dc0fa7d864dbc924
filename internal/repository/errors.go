// Package repository implements the MySQL-backed booking store and the
// read-only lookups the booking rules depend on.  Missing rows are reported
// through the sentinel errors below so that the service layer can tell them
// apart from storage failures.
package repository

import "errors"

var (
	// ErrBookingNotFound is returned when no booking matches the id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrRoomNotFound is returned when no room matches the id.
	ErrRoomNotFound = errors.New("room not found")

	// ErrEnrollmentNotFound is returned when the user never enrolled.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrTicketNotFound is returned when an enrollment has no ticket.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketTypeNotFound is returned when a ticket references a missing type.
	ErrTicketTypeNotFound = errors.New("ticket type not found")
)
