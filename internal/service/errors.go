package service

import (
	"errors"
	"net/http"
)

// Kind classifies a rejected booking request.  The set is closed: every
// rule in this package fails with one of these kinds.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindPaymentRequired
	KindNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindPaymentRequired:
		return "payment_required"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	}
	return "unknown"
}

// HTTPStatus maps the kind to the status code the API answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Error is a business rule violation.  Message is safe to show to the
// caller as is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Message }

// Is lets errors.Is match on kind and message, so tests can compare
// against the package-level values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

var (
	ErrRoomRequired       = newError(KindBadRequest, "room is required")
	ErrNoBooking          = newError(KindNotFound, "user has no booking")
	ErrRoomNotFound       = newError(KindNotFound, "room doesn't exist")
	ErrRoomFull           = newError(KindForbidden, "room is filled")
	ErrBookingNotFound    = newError(KindUnauthorized, "booking doesn't exist")
	ErrNotBookingOwner    = newError(KindUnauthorized, "user doesn't have a booking")
	ErrPaymentRequired    = newError(KindPaymentRequired, "payment required")
	ErrRemoteEvent        = newError(KindForbidden, "remote event")
	ErrHotelNotIncluded   = newError(KindForbidden, "hotel not included")
	ErrEnrollmentNotFound = newError(KindNotFound, "user has no enrollment")
	ErrTicketNotFound     = newError(KindNotFound, "user has no ticket")
)
