package engine

import (
	"context"
	"errors"
	"time"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// The engine owns the booking, settlement and check-in rules.  It
// depends on narrow store interfaces whose methods are atomic at the
// aggregate level; the concrete repositories run their own transactions
// behind them, which keeps the engine free of *sql.Tx plumbing and
// testable with mocks.

// ShowtimeStore reads scheduled screenings.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

// SeatStore reads the seat inventory of an auditorium.
type SeatStore interface {
	ListByIDs(ctx context.Context, auditoriumID uint64, ids []uint64) ([]model.Seat, error)
}

// BookingStore persists bookings and their cancel transitions.
type BookingStore interface {
	CreateWithTickets(ctx context.Context, b *model.Booking, tickets []model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Cancel(ctx context.Context, id uint64, to model.BookingStatus) error
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error)
}

// TicketStore reads tickets and performs check-in.
type TicketStore interface {
	OccupiedLabels(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]string, error)
	GetWithOwner(ctx context.Context, id uint64) (*model.Ticket, uint64, error)
	CheckIn(ctx context.Context, id uint64) error
}

// PaymentStore persists payments and the settlement cascades.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	Complete(ctx context.Context, id uint64, externalRef string, paidAt time.Time) error
	Fail(ctx context.Context, id uint64) error
	Refund(ctx context.Context, id uint64) error
	GetWithBooking(ctx context.Context, id uint64) (*model.Payment, *model.Booking, error)
}

// PaymentProvider confirms a charge synchronously and returns the
// provider's transaction reference.
type PaymentProvider interface {
	Charge(ctx context.Context, provider string, amountCents int64) (string, error)
}

// EventPublisher emits settlement events to the message broker.  A nil
// publisher is allowed and drops events.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// SeatMapCache invalidates cached seat maps when claims change.  A nil
// cache is allowed and does nothing.
type SeatMapCache interface {
	Invalidate(ctx context.Context, showtimeID uint64)
}

// Engine wires the stores together and applies the business rules.
type Engine struct {
	showtimes ShowtimeStore
	seats     SeatStore
	bookings  BookingStore
	tickets   TicketStore
	payments  PaymentStore
	provider  PaymentProvider

	events  EventPublisher
	seatMap SeatMapCache
	now     func() time.Time

	sweepBatch int
}

// sweepBatchDefault bounds how many expired bookings one sweep pass
// cancels, so a long outage backlog drains over several ticks instead
// of one giant pass.
const sweepBatchDefault = 200

// New returns an Engine over the given stores and payment provider.
// All six are required; events, cache and clock are optional and set
// with the With* methods.
func New(showtimes ShowtimeStore, seats SeatStore, bookings BookingStore,
	tickets TicketStore, payments PaymentStore, provider PaymentProvider) *Engine {
	if showtimes == nil || seats == nil || bookings == nil || tickets == nil || payments == nil || provider == nil {
		panic("engine: all stores and the payment provider are required")
	}
	return &Engine{
		showtimes:  showtimes,
		seats:      seats,
		bookings:   bookings,
		tickets:    tickets,
		payments:   payments,
		provider:   provider,
		now:        time.Now,
		sweepBatch: sweepBatchDefault,
	}
}

// WithClock replaces the engine clock.  Tests pin it to fixed instants.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	if now != nil {
		e.now = now
	}
	return e
}

// WithEvents attaches an event publisher.
func (e *Engine) WithEvents(p EventPublisher) *Engine {
	e.events = p
	return e
}

// WithSeatMapCache attaches a seat-map cache to invalidate on claims.
func (e *Engine) WithSeatMapCache(c SeatMapCache) *Engine {
	e.seatMap = c
	return e
}

func (e *Engine) invalidateSeatMap(ctx context.Context, showtimeID uint64) {
	if e.seatMap != nil {
		e.seatMap.Invalidate(ctx, showtimeID)
	}
}

func (e *Engine) publish(ctx context.Context, event interface{}) {
	if e.events == nil {
		return
	}
	_ = e.events.Publish(ctx, event)
}

// getOwnBooking loads a booking and enforces ownership, translating
// both a missing row and someone else's row into NotFoundError.
func (e *Engine) getOwnBooking(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := e.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, &NotFoundError{Msg: "booking not found"}
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, &NotFoundError{Msg: "booking not found"}
	}
	return b, nil
}
