package model

import "time"

// Booking payment window and request limits.  ExpiresAt is fixed to
// CreatedAt + BookingTTL when the booking is created and never
// recomputed afterwards.
const (
	BookingTTL         = 10 * time.Minute
	MaxSeatsPerBooking = 10
)

// BookingStatus is the lifecycle state of a booking.  Terminal states
// carry their cause: a booking canceled by its owner ends as CANCELED,
// one swept after the payment window ends as CANCELED_EXPIRED, and one
// whose payment was refunded ends as REFUNDED.
type BookingStatus string

const (
	BookingPending         BookingStatus = "PENDING"
	BookingPaid            BookingStatus = "PAID"
	BookingCanceled        BookingStatus = "CANCELED"
	BookingCanceledExpired BookingStatus = "CANCELED_EXPIRED"
	BookingRefunded        BookingStatus = "REFUNDED"
)

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCanceled, BookingCanceledExpired, BookingRefunded:
		return true
	}
	return false
}

// Booking groups the tickets a user reserved for one showtime.  It is
// the unit of expiry and of payment: either the whole booking is paid
// before ExpiresAt or the sweep cancels it and releases its seats.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking.
//  ShowtimeID       – showtime being booked.
//  Status           – lifecycle state, see BookingStatus.
//  TotalAmountCents – sum of the ticket prices in cents.
//  CreatedAt        – creation timestamp.
//  ExpiresAt        – payment deadline, CreatedAt + BookingTTL.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64        // bookings.id
	UserID           uint64        // bookings.user_id
	ShowtimeID       uint64        // bookings.showtime_id
	Status           BookingStatus // bookings.status
	TotalAmountCents int64         // bookings.total_amount_cents
	CreatedAt        time.Time     // bookings.created_at
	ExpiresAt        time.Time     // bookings.expires_at
	UpdatedAt        time.Time     // bookings.updated_at
}

// Expired reports whether the booking is still pending but its payment
// window has closed.  Only pending bookings can expire; paid and
// terminal bookings never do.
func (b *Booking) Expired(now time.Time) bool {
	return b.Status == BookingPending && now.After(b.ExpiresAt)
}

// RemainingSeconds returns how many seconds the owner still has to pay,
// or zero once the booking left PENDING or the window closed.
func (b *Booking) RemainingSeconds(now time.Time) int64 {
	if b.Status != BookingPending {
		return 0
	}
	rem := b.ExpiresAt.Sub(now)
	if rem < 0 {
		return 0
	}
	return int64(rem.Seconds())
}
