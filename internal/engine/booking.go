package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/pricing"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// CreateBooking reserves the given seats for the user on a showtime.
// The returned booking is PENDING with the payment deadline set, and
// its tickets carry prices frozen from the showtime base price and the
// seat type multipliers.
//
// Seats already claimed by someone else produce a ConflictError naming
// the losing seat labels.  The availability pre-check keeps the error
// informative; the tickets unique key is what actually decides races.
func (e *Engine) CreateBooking(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (*model.Booking, []model.Ticket, error) {
	if len(seatIDs) == 0 {
		return nil, nil, &ValidationError{Msg: "at least one seat is required"}
	}
	if len(seatIDs) > model.MaxSeatsPerBooking {
		return nil, nil, &ValidationError{Msg: fmt.Sprintf("at most %d seats per booking", model.MaxSeatsPerBooking)}
	}
	seen := make(map[uint64]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, nil, &ValidationError{Msg: fmt.Sprintf("seat %d requested twice", id)}
		}
		seen[id] = struct{}{}
	}

	// Release seats of overdue bookings first so they are bookable
	// again even between sweeper ticks.
	if _, err := e.SweepExpired(ctx); err != nil {
		log.Printf("booking: inline sweep failed: %v", err)
	}

	now := e.now().UTC()
	st, err := e.showtimes.GetByID(ctx, showtimeID)
	if errors.Is(err, repository.ErrShowtimeNotFound) {
		return nil, nil, &NotFoundError{Msg: "showtime not found"}
	}
	if err != nil {
		return nil, nil, err
	}
	if !st.BookingOpen(now) {
		return nil, nil, &PreconditionError{Msg: "booking is closed for this showtime"}
	}

	seats, err := e.seats.ListByIDs(ctx, st.AuditoriumID, seatIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(seats) != len(seatIDs) {
		found := make(map[uint64]struct{}, len(seats))
		for _, s := range seats {
			found[s.ID] = struct{}{}
		}
		for _, id := range seatIDs {
			if _, ok := found[id]; !ok {
				return nil, nil, &NotFoundError{Msg: fmt.Sprintf("seat %d not found in this auditorium", id)}
			}
		}
	}

	taken, err := e.tickets.OccupiedLabels(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(taken) > 0 {
		return nil, nil, &ConflictError{Msg: "seats already taken", Seats: taken}
	}

	booking := &model.Booking{
		UserID:     userID,
		ShowtimeID: showtimeID,
		Status:     model.BookingPending,
		ExpiresAt:  now.Add(model.BookingTTL),
	}
	tickets := make([]model.Ticket, 0, len(seats))
	for _, s := range seats {
		price := pricing.TicketPriceCents(st.BasePriceCents, s.SeatType)
		booking.TotalAmountCents += price
		tickets = append(tickets, model.Ticket{
			ShowtimeID: showtimeID,
			SeatID:     s.ID,
			PriceCents: price,
			Status:     model.TicketReserved,
		})
	}

	if err := e.bookings.CreateWithTickets(ctx, booking, tickets); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			// Lost the race after the pre-check.  Re-query so the
			// conflict names the seats that were grabbed.
			labels, qerr := e.tickets.OccupiedLabels(ctx, showtimeID, seatIDs)
			if qerr != nil {
				labels = nil
			}
			return nil, nil, &ConflictError{Msg: "seats already taken", Seats: labels}
		}
		return nil, nil, err
	}
	e.invalidateSeatMap(ctx, showtimeID)
	return booking, tickets, nil
}

// CancelBooking cancels the user's own pending booking and releases its
// seats.  Paid bookings are not cancelable here; they go through the
// refund flow instead.
func (e *Engine) CancelBooking(ctx context.Context, userID, bookingID uint64) (*model.Booking, error) {
	b, err := e.getOwnBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending {
		return nil, &PreconditionError{Msg: fmt.Sprintf("booking is %s, only pending bookings can be canceled", b.Status)}
	}
	if err := e.bookings.Cancel(ctx, bookingID, model.BookingCanceled); err != nil {
		if errors.Is(err, repository.ErrBookingNotPending) {
			return nil, &PreconditionError{Msg: "booking already left the pending state"}
		}
		return nil, err
	}
	b.Status = model.BookingCanceled
	e.invalidateSeatMap(ctx, b.ShowtimeID)
	return b, nil
}
