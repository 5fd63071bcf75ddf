package model

import "time"

// Time windows around a showtime.  These are fixed business rules, not
// configuration: bookings close 30 minutes before the screening starts,
// check-in opens 30 minutes before it starts, refunds close two hours
// before it starts, and every screening blocks its auditorium for an
// extra 30 minutes of turnaround after the credits roll.
const (
	TurnaroundBuffer   = 30 * time.Minute
	BookingCutoff      = 30 * time.Minute
	CheckInOpensBefore = 30 * time.Minute
	RefundCutoff       = 2 * time.Hour
)

// ShowtimeStatus is the lifecycle state of a scheduled screening.
// Only SCHEDULED showtimes accept bookings.
type ShowtimeStatus string

const (
	ShowtimeScheduled ShowtimeStatus = "SCHEDULED"
	ShowtimeCanceled  ShowtimeStatus = "CANCELED"
	ShowtimeFinished  ShowtimeStatus = "FINISHED"
)

// Showtime represents a scheduled screening of a movie in a particular
// auditorium.  Two showtimes may never overlap in the same auditorium;
// the end time is computed once at creation from the movie duration
// plus the turnaround buffer and never recomputed.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  AuditoriumID   – auditorium where the screening takes place.
//  StartsAt       – when the screening begins (UTC).
//  EndsAt         – StartsAt + movie duration + turnaround (UTC).
//  BasePriceCents – base ticket price in cents before seat multipliers.
//  Status         – current state (SCHEDULED, CANCELED, FINISHED).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Showtime struct {
	ID             uint64         // showtimes.id
	MovieID        uint64         // showtimes.movie_id
	AuditoriumID   uint64         // showtimes.auditorium_id
	StartsAt       time.Time      // showtimes.starts_at
	EndsAt         time.Time      // showtimes.ends_at
	BasePriceCents int64          // showtimes.base_price_cents
	Status         ShowtimeStatus // showtimes.status
	CreatedAt      time.Time      // showtimes.created_at
	UpdatedAt      time.Time      // showtimes.updated_at
}

// ScheduleEnd computes the end of the auditorium occupation for a
// screening that starts at start and runs durationMin minutes.
func ScheduleEnd(start time.Time, durationMin uint32) time.Time {
	return start.Add(time.Duration(durationMin)*time.Minute + TurnaroundBuffer)
}

// BookingDeadline returns the instant after which no new bookings are
// accepted for this showtime.
func (s *Showtime) BookingDeadline() time.Time {
	return s.StartsAt.Add(-BookingCutoff)
}

// BookingOpen reports whether the showtime accepts new bookings at the
// given instant: it must still be SCHEDULED and the deadline must not
// have passed.
func (s *Showtime) BookingOpen(now time.Time) bool {
	if s.Status != ShowtimeScheduled {
		return false
	}
	return now.Before(s.BookingDeadline())
}

// CheckInOpensAt returns the instant at which ticket check-in opens.
func (s *Showtime) CheckInOpensAt() time.Time {
	return s.StartsAt.Add(-CheckInOpensBefore)
}

// InCheckInWindow reports whether tickets for this showtime may be
// checked in at the given instant.  The window runs from 30 minutes
// before the start until the screening ends.
func (s *Showtime) InCheckInWindow(now time.Time) bool {
	return !now.Before(s.CheckInOpensAt()) && !now.After(s.EndsAt)
}

// RefundDeadline returns the instant after which completed payments for
// this showtime can no longer be refunded.
func (s *Showtime) RefundDeadline() time.Time {
	return s.StartsAt.Add(-RefundCutoff)
}

// Refundable reports whether the refund window is still open.
func (s *Showtime) Refundable(now time.Time) bool {
	return now.Before(s.RefundDeadline())
}
