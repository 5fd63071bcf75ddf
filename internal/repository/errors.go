// Package repository implements the data access layer over MySQL.  This
// file defines sentinel errors shared across repositories.  These values
// let the engine and handlers distinguish failure scenarios without
// inspecting SQL error strings: a missing row, an ownership violation,
// or a state-conditioned update that matched nothing.
package repository

import (
	"errors"
	"strings"
)

// Not-found sentinels, one per aggregate, returned when a lookup by id
// matches no row.
var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrAuditoriumNotFound = errors.New("auditorium not found")
	ErrShowtimeNotFound   = errors.New("showtime not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrPaymentNotFound    = errors.New("payment not found")
)

// ErrSeatTaken is returned when inserting tickets trips the unique
// (showtime, seat) claim, i.e. another booking already holds at least
// one of the requested seats.
var ErrSeatTaken = errors.New("seat already taken")

// ErrShowtimeOverlap is returned when a new showtime would overlap an
// existing one in the same auditorium.
var ErrShowtimeOverlap = errors.New("showtime overlaps an existing screening")

// ErrDuplicateName is returned when creating an auditorium whose name
// already exists.
var ErrDuplicateName = errors.New("name already in use")

// ErrSeatsInUse is returned when regenerating a seat plan whose seats
// are still referenced by tickets (the FK is RESTRICT).
var ErrSeatsInUse = errors.New("seats are referenced by tickets")

// ErrDuplicatePayment is returned when a booking already has a payment.
var ErrDuplicatePayment = errors.New("payment already exists for booking")

// State-conditioned updates return these when the row exists but is no
// longer in the state the transition requires.  The race they guard is
// real: the expiry sweep, a cancel request and a payment attempt may all
// target the same booking concurrently, and only the first committer wins.
var (
	ErrBookingNotPending   = errors.New("booking is not pending")
	ErrBookingNotPayable   = errors.New("booking is not payable")
	ErrTicketNotPaid       = errors.New("ticket is not paid")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrPaymentNotCompleted = errors.New("payment is not completed")
)

// isDuplicate reports whether err is a MySQL duplicate-entry violation
// (error 1062), the signal that a unique key rejected an insert.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isRowReferenced reports whether err is a MySQL restricted-delete
// violation (error 1451), a child row still pointing at the rows being
// deleted.
func isRowReferenced(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
