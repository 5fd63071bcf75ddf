package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/queue"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// DefaultRefundReason is recorded when the caller gives none.
const DefaultRefundReason = "customer request"

// CreatePayment settles a pending booking with the named provider.
// The provider confirmation is synchronous: on success the returned
// payment is COMPLETED and the booking, with all its tickets, is PAID.
// A declined charge returns the payment in FAILED state with a nil
// error.  A booking holds at most one payment row, so a failed charge
// closes settlement for it; the hold then lapses through the expiry
// sweep and the seats return to the pool.
func (e *Engine) CreatePayment(ctx context.Context, userID, bookingID uint64, provider string) (*model.Payment, error) {
	if !model.ValidProvider(provider) {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown payment provider %q", provider)}
	}

	if _, err := e.SweepExpired(ctx); err != nil {
		log.Printf("payment: inline sweep failed: %v", err)
	}

	b, err := e.getOwnBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if b.Status != model.BookingPending {
		return nil, &PreconditionError{Msg: fmt.Sprintf("booking is %s, only pending bookings can be paid", b.Status)}
	}
	if b.Expired(now) {
		return nil, &PreconditionError{Msg: "payment window has closed"}
	}

	p := &model.Payment{
		BookingID:   bookingID,
		AmountCents: b.TotalAmountCents,
		Provider:    provider,
		Status:      model.PaymentPending,
	}
	if err := e.payments.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return nil, &ConflictError{Msg: "booking already has a payment"}
		}
		return nil, err
	}

	ref, err := e.provider.Charge(ctx, provider, p.AmountCents)
	if err != nil {
		log.Printf("payment: charge declined for booking %d: %v", bookingID, err)
		if ferr := e.payments.Fail(ctx, p.ID); ferr != nil {
			log.Printf("payment: mark %d failed: %v", p.ID, ferr)
		}
		p.Status = model.PaymentFailed
		return p, nil
	}

	paidAt := e.now().UTC()
	if err := e.payments.Complete(ctx, p.ID, ref, paidAt); err != nil {
		if errors.Is(err, repository.ErrBookingNotPayable) {
			// Swept or canceled between the check and the charge.
			if ferr := e.payments.Fail(ctx, p.ID); ferr != nil {
				log.Printf("payment: mark %d failed: %v", p.ID, ferr)
			}
			return nil, &PreconditionError{Msg: "payment window has closed"}
		}
		return nil, err
	}
	p.Status = model.PaymentCompleted
	p.ExternalRef = &ref
	p.PaidAt = &paidAt

	e.publish(ctx, queue.BookingPaidEvent{
		Event:       queue.EventBookingPaid,
		BookingID:   b.ID,
		UserID:      b.UserID,
		ShowtimeID:  b.ShowtimeID,
		PaymentID:   p.ID,
		AmountCents: p.AmountCents,
		Provider:    provider,
		ExternalRef: ref,
		PaidAt:      paidAt.Format(time.RFC3339),
	})
	return p, nil
}

// GetPayment returns the user's own payment.  Payments owned by other
// users are reported as not found.
func (e *Engine) GetPayment(ctx context.Context, userID, paymentID uint64) (*model.Payment, error) {
	p, b, err := e.payments.GetWithBooking(ctx, paymentID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, &NotFoundError{Msg: "payment not found"}
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, &NotFoundError{Msg: "payment not found"}
	}
	return p, nil
}

// CheckIn marks the user's paid ticket as used at the door.  The gate
// opens 30 minutes before the screening starts and closes when it
// ends; outside that window the scan is rejected, as is a second scan
// of the same ticket.
func (e *Engine) CheckIn(ctx context.Context, userID, ticketID uint64) (*model.Ticket, error) {
	t, ownerID, err := e.tickets.GetWithOwner(ctx, ticketID)
	if errors.Is(err, repository.ErrTicketNotFound) {
		return nil, &NotFoundError{Msg: "ticket not found"}
	}
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, &NotFoundError{Msg: "ticket not found"}
	}
	if t.Status != model.TicketPaid {
		return nil, &PreconditionError{Msg: fmt.Sprintf("ticket is %s, only paid tickets can check in", t.Status)}
	}
	st, err := e.showtimes.GetByID(ctx, t.ShowtimeID)
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if !st.InCheckInWindow(now) {
		return nil, &PreconditionError{Msg: "check-in window is not open"}
	}
	if err := e.tickets.CheckIn(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrTicketNotPaid) {
			return nil, &PreconditionError{Msg: "ticket already checked in or no longer paid"}
		}
		return nil, err
	}
	t.Status = model.TicketCheckedIn
	return t, nil
}

// Refund reverses the user's completed payment while the refund window
// is open, which closes two hours before the screening starts.  The
// payment, booking and tickets all move to REFUNDED and the seats
// become bookable again.
func (e *Engine) Refund(ctx context.Context, userID, paymentID uint64, reason string) (*model.Payment, error) {
	p, b, err := e.payments.GetWithBooking(ctx, paymentID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return nil, &NotFoundError{Msg: "payment not found"}
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, &NotFoundError{Msg: "payment not found"}
	}
	if p.Status != model.PaymentCompleted {
		return nil, &PreconditionError{Msg: fmt.Sprintf("payment is %s, only completed payments can be refunded", p.Status)}
	}
	st, err := e.showtimes.GetByID(ctx, b.ShowtimeID)
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	if !st.Refundable(now) {
		return nil, &PreconditionError{Msg: "refund window has closed"}
	}
	if err := e.payments.Refund(ctx, paymentID); err != nil {
		if errors.Is(err, repository.ErrPaymentNotCompleted) {
			return nil, &PreconditionError{Msg: "payment is no longer refundable"}
		}
		return nil, err
	}
	p.Status = model.PaymentRefunded
	e.invalidateSeatMap(ctx, b.ShowtimeID)

	if reason == "" {
		reason = DefaultRefundReason
	}
	e.publish(ctx, queue.PaymentRefundedEvent{
		Event:       queue.EventPaymentRefunded,
		PaymentID:   p.ID,
		BookingID:   b.ID,
		UserID:      b.UserID,
		ShowtimeID:  b.ShowtimeID,
		AmountCents: p.AmountCents,
		Reason:      reason,
		RefundedAt:  now.Format(time.RFC3339),
	})
	return p, nil
}
