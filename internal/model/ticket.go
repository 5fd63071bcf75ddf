package model

import "time"

// TicketStatus is the lifecycle state of a single seat ticket.  A seat
// is occupied for a showtime exactly when a ticket in one of the
// active statuses (RESERVED, PAID, CHECKED_IN) references it.
type TicketStatus string

const (
	TicketReserved  TicketStatus = "RESERVED"
	TicketPaid      TicketStatus = "PAID"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
	TicketCanceled  TicketStatus = "CANCELED"
	TicketRefunded  TicketStatus = "REFUNDED"
)

// ActiveTicketStatuses lists the statuses that keep a seat claimed.
var ActiveTicketStatuses = []TicketStatus{TicketReserved, TicketPaid, TicketCheckedIn}

// Active reports whether the ticket currently claims its seat.
func (s TicketStatus) Active() bool {
	switch s {
	case TicketReserved, TicketPaid, TicketCheckedIn:
		return true
	}
	return false
}

// Ticket assigns one seat of one showtime to a booking.  The price is
// computed once at creation from the showtime base price and the seat
// type multiplier; re-pricing a showtime never changes issued tickets.
// The showtime reference is denormalized from the booking so the
// (showtime, seat) claim can be enforced with a single unique key.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – booking this ticket belongs to.
//  ShowtimeID – showtime the seat is claimed for.
//  SeatID     – seat being claimed.
//  PriceCents – frozen ticket price in cents.
//  Status     – lifecycle state, see TicketStatus.
//  BookedAt   – creation timestamp.
type Ticket struct {
	ID         uint64       // tickets.id
	BookingID  uint64       // tickets.booking_id
	ShowtimeID uint64       // tickets.showtime_id
	SeatID     uint64       // tickets.seat_id
	PriceCents int64        // tickets.price_cents
	Status     TicketStatus // tickets.status
	BookedAt   time.Time    // tickets.booked_at
}
