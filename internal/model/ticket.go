package model

// Ticket statuses stored in tickets.status.
const (
	TicketStatusReserved = "RESERVED"
	TicketStatusPaid     = "PAID"
)

// Enrollment registers a user for the event.  Each user has at most one.
type Enrollment struct {
	ID     int64 `db:"id"`      // enrollments.id
	UserID int64 `db:"user_id"` // enrollments.user_id
}

// Ticket is the event ticket bought under an enrollment.
//
// Fields:
//
//	ID           – primary key identifier.
//	EnrollmentID – enrollment the ticket was issued for.
//	TicketTypeID – category of the ticket.
//	Status       – RESERVED until paid, then PAID.
type Ticket struct {
	ID           int64  `db:"id"`             // tickets.id
	EnrollmentID int64  `db:"enrollment_id"`  // tickets.enrollment_id
	TicketTypeID int64  `db:"ticket_type_id"` // tickets.ticket_type_id
	Status       string `db:"status"`         // tickets.status
}

// IsPaid reports whether the ticket has been paid for.
func (t Ticket) IsPaid() bool { return t.Status == TicketStatusPaid }

// TicketType describes what a ticket entitles its holder to.  Remote
// tickets never include accommodation; in-person tickets may or may not.
type TicketType struct {
	ID            int64  `db:"id"`             // ticket_types.id
	Name          string `db:"name"`           // ticket_types.name
	Price         int    `db:"price"`          // ticket_types.price
	IsRemote      bool   `db:"is_remote"`      // ticket_types.is_remote
	IncludesHotel bool   `db:"includes_hotel"` // ticket_types.includes_hotel
}
