package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/queue"
	"github.com/filmgrid/booking-engine/internal/repository"
)

type showtimeStoreMock struct{ mock.Mock }

func (m *showtimeStoreMock) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*model.Showtime)
	return st, args.Error(1)
}

type seatStoreMock struct{ mock.Mock }

func (m *seatStoreMock) ListByIDs(ctx context.Context, auditoriumID uint64, ids []uint64) ([]model.Seat, error) {
	args := m.Called(ctx, auditoriumID, ids)
	seats, _ := args.Get(0).([]model.Seat)
	return seats, args.Error(1)
}

type bookingStoreMock struct{ mock.Mock }

func (m *bookingStoreMock) CreateWithTickets(ctx context.Context, b *model.Booking, tickets []model.Ticket) error {
	args := m.Called(ctx, b, tickets)
	if args.Error(0) == nil {
		b.ID = 101
	}
	return args.Error(0)
}

func (m *bookingStoreMock) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Booking)
	return b, args.Error(1)
}

func (m *bookingStoreMock) Cancel(ctx context.Context, id uint64, to model.BookingStatus) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}

func (m *bookingStoreMock) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	args := m.Called(ctx, cutoff, limit)
	expired, _ := args.Get(0).([]model.Booking)
	return expired, args.Error(1)
}

type ticketStoreMock struct{ mock.Mock }

func (m *ticketStoreMock) OccupiedLabels(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]string, error) {
	args := m.Called(ctx, showtimeID, seatIDs)
	labels, _ := args.Get(0).([]string)
	return labels, args.Error(1)
}

func (m *ticketStoreMock) GetWithOwner(ctx context.Context, id uint64) (*model.Ticket, uint64, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Ticket)
	owner, _ := args.Get(1).(uint64)
	return t, owner, args.Error(2)
}

func (m *ticketStoreMock) CheckIn(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type paymentStoreMock struct{ mock.Mock }

func (m *paymentStoreMock) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 501
	}
	return args.Error(0)
}

func (m *paymentStoreMock) Complete(ctx context.Context, id uint64, externalRef string, paidAt time.Time) error {
	args := m.Called(ctx, id, externalRef, paidAt)
	return args.Error(0)
}

func (m *paymentStoreMock) Fail(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *paymentStoreMock) Refund(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *paymentStoreMock) GetWithBooking(ctx context.Context, id uint64) (*model.Payment, *model.Booking, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Payment)
	b, _ := args.Get(1).(*model.Booking)
	return p, b, args.Error(2)
}

type providerMock struct{ mock.Mock }

func (m *providerMock) Charge(ctx context.Context, provider string, amountCents int64) (string, error) {
	args := m.Called(ctx, provider, amountCents)
	return args.String(0), args.Error(1)
}

type publisherSpy struct {
	events []interface{}
}

func (p *publisherSpy) Publish(_ context.Context, event interface{}) error {
	p.events = append(p.events, event)
	return nil
}

type cacheSpy struct {
	invalidated []uint64
}

func (c *cacheSpy) Invalidate(_ context.Context, showtimeID uint64) {
	c.invalidated = append(c.invalidated, showtimeID)
}

// testRig bundles an engine with all its mocks and a pinned clock.
type testRig struct {
	engine    *Engine
	showtimes *showtimeStoreMock
	seats     *seatStoreMock
	bookings  *bookingStoreMock
	tickets   *ticketStoreMock
	payments  *paymentStoreMock
	provider  *providerMock
	events    *publisherSpy
	cache     *cacheSpy
	now       time.Time
}

var screeningStart = time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)

func newRig(now time.Time) *testRig {
	r := &testRig{
		showtimes: &showtimeStoreMock{},
		seats:     &seatStoreMock{},
		bookings:  &bookingStoreMock{},
		tickets:   &ticketStoreMock{},
		payments:  &paymentStoreMock{},
		provider:  &providerMock{},
		events:    &publisherSpy{},
		cache:     &cacheSpy{},
		now:       now,
	}
	r.engine = New(r.showtimes, r.seats, r.bookings, r.tickets, r.payments, r.provider).
		WithClock(func() time.Time { return r.now }).
		WithEvents(r.events).
		WithSeatMapCache(r.cache)
	return r
}

// noExpired stubs the inline sweep to find nothing.
func (r *testRig) noExpired() {
	r.bookings.On("ListExpired", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Booking{}, nil)
}

func scheduledShowtime() *model.Showtime {
	return &model.Showtime{
		ID:             7,
		MovieID:        1,
		AuditoriumID:   3,
		StartsAt:       screeningStart,
		EndsAt:         screeningStart.Add(2*time.Hour + 30*time.Minute),
		BasePriceCents: 10000,
		Status:         model.ShowtimeScheduled,
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.noExpired()
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.seats.On("ListByIDs", mock.Anything, uint64(3), []uint64{11, 12}).Return([]model.Seat{
		{ID: 11, AuditoriumID: 3, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard},
		{ID: 12, AuditoriumID: 3, RowLabel: "C", SeatNumber: 4, SeatType: model.SeatVIP},
	}, nil)
	r.tickets.On("OccupiedLabels", mock.Anything, uint64(7), []uint64{11, 12}).Return([]string{}, nil)
	r.bookings.On("CreateWithTickets", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	b, tickets, err := r.engine.CreateBooking(context.Background(), 42, 7, []uint64{11, 12})

	assert.NoError(t, err)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, r.now.Add(model.BookingTTL), b.ExpiresAt)
	assert.Equal(t, int64(10000+15000), b.TotalAmountCents)
	assert.Len(t, tickets, 2)
	assert.Equal(t, int64(15000), tickets[1].PriceCents)
	assert.Equal(t, model.TicketReserved, tickets[0].Status)
	assert.Equal(t, []uint64{7}, r.cache.invalidated)
}

func TestCreateBookingSeatConflict(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.noExpired()
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.seats.On("ListByIDs", mock.Anything, uint64(3), []uint64{11}).Return([]model.Seat{
		{ID: 11, AuditoriumID: 3, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard},
	}, nil)
	r.tickets.On("OccupiedLabels", mock.Anything, uint64(7), []uint64{11}).Return([]string{"A1"}, nil)

	_, _, err := r.engine.CreateBooking(context.Background(), 42, 7, []uint64{11})

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A1"}, conflict.Seats)
	r.bookings.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingLosesInsertRace(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.noExpired()
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.seats.On("ListByIDs", mock.Anything, uint64(3), []uint64{11}).Return([]model.Seat{
		{ID: 11, AuditoriumID: 3, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard},
	}, nil)
	// Pre-check sees the seat free, the insert loses, the re-query
	// names the grabbed seat.
	r.tickets.On("OccupiedLabels", mock.Anything, uint64(7), []uint64{11}).
		Return([]string{}, nil).Once()
	r.bookings.On("CreateWithTickets", mock.Anything, mock.Anything, mock.Anything).
		Return(repository.ErrSeatTaken)
	r.tickets.On("OccupiedLabels", mock.Anything, uint64(7), []uint64{11}).
		Return([]string{"A1"}, nil)

	_, _, err := r.engine.CreateBooking(context.Background(), 42, 7, []uint64{11})

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A1"}, conflict.Seats)
	assert.Empty(t, r.cache.invalidated)
}

func TestCreateBookingWindowClosed(t *testing.T) {
	r := newRig(screeningStart.Add(-10 * time.Minute))
	r.noExpired()
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)

	_, _, err := r.engine.CreateBooking(context.Background(), 42, 7, []uint64{11})

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
}

func TestCreateBookingValidation(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))

	tooMany := make([]uint64, model.MaxSeatsPerBooking+1)
	for i := range tooMany {
		tooMany[i] = uint64(i + 1)
	}
	cases := []struct {
		name  string
		seats []uint64
	}{
		{"no seats", []uint64{}},
		{"too many seats", tooMany},
		{"duplicate seat", []uint64{5, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := r.engine.CreateBooking(context.Background(), 42, 7, tc.seats)
			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.noExpired()
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.seats.On("ListByIDs", mock.Anything, uint64(3), []uint64{11, 999}).Return([]model.Seat{
		{ID: 11, AuditoriumID: 3, RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard},
	}, nil)

	_, _, err := r.engine.CreateBooking(context.Background(), 42, 7, []uint64{11, 999})

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCancelBookingOwnership(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
	}, nil)

	_, err := r.engine.CancelBooking(context.Background(), 99, 101)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	r.bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBookingNotPending(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPaid,
	}, nil)

	_, err := r.engine.CancelBooking(context.Background(), 42, 101)

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	r := newRig(screeningStart.Add(-2 * time.Hour))
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
	}, nil)
	r.bookings.On("Cancel", mock.Anything, uint64(101), model.BookingCanceled).Return(nil)

	b, err := r.engine.CancelBooking(context.Background(), 42, 101)

	assert.NoError(t, err)
	assert.Equal(t, model.BookingCanceled, b.Status)
	assert.Equal(t, []uint64{7}, r.cache.invalidated)
}

func TestCreatePaymentSuccess(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	r.noExpired()
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
		TotalAmountCents: 25000, ExpiresAt: r.now.Add(5 * time.Minute),
	}, nil)
	r.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.provider.On("Charge", mock.Anything, model.ProviderCreditCard, int64(25000)).
		Return("TXN-abc", nil)
	r.payments.On("Complete", mock.Anything, uint64(501), "TXN-abc", r.now.UTC()).Return(nil)

	p, err := r.engine.CreatePayment(context.Background(), 42, 101, model.ProviderCreditCard)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.Status)
	if assert.NotNil(t, p.ExternalRef) {
		assert.Equal(t, "TXN-abc", *p.ExternalRef)
	}
	assert.NotNil(t, p.PaidAt)
	if assert.Len(t, r.events.events, 1) {
		event, ok := r.events.events[0].(queue.BookingPaidEvent)
		assert.True(t, ok)
		assert.Equal(t, queue.EventBookingPaid, event.Event)
		assert.Equal(t, uint64(101), event.BookingID)
	}
}

func TestCreatePaymentDeclined(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	r.noExpired()
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
		TotalAmountCents: 25000, ExpiresAt: r.now.Add(5 * time.Minute),
	}, nil)
	r.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.provider.On("Charge", mock.Anything, model.ProviderCash, int64(25000)).
		Return("", errors.New("declined"))
	r.payments.On("Fail", mock.Anything, uint64(501)).Return(nil)

	p, err := r.engine.CreatePayment(context.Background(), 42, 101, model.ProviderCash)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, p.Status)
	r.payments.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, r.events.events)
}

func TestCreatePaymentDuplicate(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	r.noExpired()
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
		TotalAmountCents: 25000, ExpiresAt: r.now.Add(5 * time.Minute),
	}, nil)
	r.payments.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicatePayment)

	_, err := r.engine.CreatePayment(context.Background(), 42, 101, model.ProviderEWallet)

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCreatePaymentExpiredBooking(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	r.noExpired()
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
		TotalAmountCents: 25000, ExpiresAt: r.now.Add(-time.Second),
	}, nil)

	_, err := r.engine.CreatePayment(context.Background(), 42, 101, model.ProviderCreditCard)

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	r.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePaymentLosesSweepRace(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	r.noExpired()
	r.bookings.On("GetByID", mock.Anything, uint64(101)).Return(&model.Booking{
		ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPending,
		TotalAmountCents: 25000, ExpiresAt: r.now.Add(time.Second),
	}, nil)
	r.payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	r.provider.On("Charge", mock.Anything, model.ProviderCreditCard, int64(25000)).
		Return("TXN-abc", nil)
	r.payments.On("Complete", mock.Anything, uint64(501), "TXN-abc", r.now.UTC()).
		Return(repository.ErrBookingNotPayable)
	r.payments.On("Fail", mock.Anything, uint64(501)).Return(nil)

	_, err := r.engine.CreatePayment(context.Background(), 42, 101, model.ProviderCreditCard)

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	r.payments.AssertCalled(t, "Fail", mock.Anything, uint64(501))
	assert.Empty(t, r.events.events)
}

func TestCreatePaymentUnknownProvider(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))

	_, err := r.engine.CreatePayment(context.Background(), 42, 101, "crypto")

	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSweepExpired(t *testing.T) {
	r := newRig(screeningStart)
	r.bookings.On("ListExpired", mock.Anything, r.now.UTC(), sweepBatchDefault).Return([]model.Booking{
		{ID: 101, ShowtimeID: 7},
		{ID: 102, ShowtimeID: 8},
		{ID: 103, ShowtimeID: 7},
	}, nil)
	r.bookings.On("Cancel", mock.Anything, uint64(101), model.BookingCanceledExpired).Return(nil)
	// 102 got paid between the listing and the cancel.
	r.bookings.On("Cancel", mock.Anything, uint64(102), model.BookingCanceledExpired).
		Return(repository.ErrBookingNotPending)
	r.bookings.On("Cancel", mock.Anything, uint64(103), model.BookingCanceledExpired).Return(nil)

	n, err := r.engine.SweepExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint64{7, 7}, r.cache.invalidated)
}

func TestCheckInSuccess(t *testing.T) {
	r := newRig(screeningStart.Add(-15 * time.Minute))
	r.tickets.On("GetWithOwner", mock.Anything, uint64(301)).Return(&model.Ticket{
		ID: 301, BookingID: 101, ShowtimeID: 7, SeatID: 11, Status: model.TicketPaid,
	}, uint64(42), nil)
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.tickets.On("CheckIn", mock.Anything, uint64(301)).Return(nil)

	ticket, err := r.engine.CheckIn(context.Background(), 42, 301)

	assert.NoError(t, err)
	assert.Equal(t, model.TicketCheckedIn, ticket.Status)
}

func TestCheckInBeforeWindow(t *testing.T) {
	r := newRig(screeningStart.Add(-time.Hour))
	r.tickets.On("GetWithOwner", mock.Anything, uint64(301)).Return(&model.Ticket{
		ID: 301, BookingID: 101, ShowtimeID: 7, SeatID: 11, Status: model.TicketPaid,
	}, uint64(42), nil)
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)

	_, err := r.engine.CheckIn(context.Background(), 42, 301)

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	r.tickets.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything)
}

func TestCheckInTwice(t *testing.T) {
	r := newRig(screeningStart.Add(-15 * time.Minute))
	r.tickets.On("GetWithOwner", mock.Anything, uint64(301)).Return(&model.Ticket{
		ID: 301, BookingID: 101, ShowtimeID: 7, SeatID: 11, Status: model.TicketCheckedIn,
	}, uint64(42), nil)

	_, err := r.engine.CheckIn(context.Background(), 42, 301)

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
}

func TestCheckInNotOwner(t *testing.T) {
	r := newRig(screeningStart.Add(-15 * time.Minute))
	r.tickets.On("GetWithOwner", mock.Anything, uint64(301)).Return(&model.Ticket{
		ID: 301, BookingID: 101, ShowtimeID: 7, SeatID: 11, Status: model.TicketPaid,
	}, uint64(42), nil)

	_, err := r.engine.CheckIn(context.Background(), 99, 301)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func completedPayment() (*model.Payment, *model.Booking) {
	ref := "TXN-abc"
	return &model.Payment{
			ID: 501, BookingID: 101, AmountCents: 25000,
			Provider: model.ProviderCreditCard, ExternalRef: &ref,
			Status: model.PaymentCompleted,
		}, &model.Booking{
			ID: 101, UserID: 42, ShowtimeID: 7, Status: model.BookingPaid,
			TotalAmountCents: 25000,
		}
}

func TestRefundSuccess(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	p, b := completedPayment()
	r.payments.On("GetWithBooking", mock.Anything, uint64(501)).Return(p, b, nil)
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)
	r.payments.On("Refund", mock.Anything, uint64(501)).Return(nil)

	refunded, err := r.engine.Refund(context.Background(), 42, 501, "")

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, refunded.Status)
	assert.Equal(t, []uint64{7}, r.cache.invalidated)
	if assert.Len(t, r.events.events, 1) {
		event, ok := r.events.events[0].(queue.PaymentRefundedEvent)
		assert.True(t, ok)
		assert.Equal(t, DefaultRefundReason, event.Reason)
	}
}

func TestRefundWindowClosed(t *testing.T) {
	r := newRig(screeningStart.Add(-time.Hour))
	p, b := completedPayment()
	r.payments.On("GetWithBooking", mock.Anything, uint64(501)).Return(p, b, nil)
	r.showtimes.On("GetByID", mock.Anything, uint64(7)).Return(scheduledShowtime(), nil)

	_, err := r.engine.Refund(context.Background(), 42, 501, "changed plans")

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	r.payments.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestRefundNotCompleted(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	p, b := completedPayment()
	p.Status = model.PaymentFailed
	r.payments.On("GetWithBooking", mock.Anything, uint64(501)).Return(p, b, nil)

	_, err := r.engine.Refund(context.Background(), 42, 501, "")

	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
}

func TestRefundNotOwner(t *testing.T) {
	r := newRig(screeningStart.Add(-3 * time.Hour))
	p, b := completedPayment()
	r.payments.On("GetWithBooking", mock.Anything, uint64(501)).Return(p, b, nil)

	_, err := r.engine.Refund(context.Background(), 99, 501, "")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
