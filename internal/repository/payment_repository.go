package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/filmgrid/booking-engine/internal/model"
)

// PaymentRepo persists payments and drives the settlement cascades.
// Completing a payment is the transaction that flips the booking to
// PAID, and refunding one reverses the whole chain, so both run here
// rather than spread across repos.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a pending payment for a booking.  The unique key on
// booking_id allows at most one payment per booking; a second attempt
// maps to ErrDuplicatePayment.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, provider, status)
	           VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.Provider, p.Status)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicatePayment
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// Complete settles a payment: booking to PAID, payment to COMPLETED
// with the provider reference, reserved tickets to PAID, all in one
// transaction.  The booking update is conditioned on the booking still
// being PENDING and not yet expired at the given instant, so a sweep or
// cancel that committed first makes the whole settlement fail with
// ErrBookingNotPayable and nothing is written.
func (r *PaymentRepo) Complete(ctx context.Context, id uint64, externalRef string, paidAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var bookingID uint64
	const sel = `SELECT booking_id FROM payments WHERE id = ? AND status = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, sel, id, model.PaymentPending).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotPending
	}
	if err != nil {
		return err
	}

	const claimQ = `UPDATE bookings SET status = ?
	                WHERE id = ? AND status = ? AND expires_at > ?`
	result, err := tx.ExecContext(ctx, claimQ, model.BookingPaid, bookingID, model.BookingPending, paidAt)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotPayable
	}

	const payQ = `UPDATE payments SET status = ?, external_ref = ?, paid_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, payQ, model.PaymentCompleted, externalRef, paidAt, id); err != nil {
		return err
	}
	const ticketsQ = `UPDATE tickets SET status = ? WHERE booking_id = ? AND status = ?`
	if _, err := tx.ExecContext(ctx, ticketsQ, model.TicketPaid, bookingID, model.TicketReserved); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Fail marks a pending payment as FAILED.  The booking is left PENDING;
// since booking_id is unique on payments, the failed row is the
// booking's only settlement attempt and the hold simply runs out.
func (r *PaymentRepo) Fail(ctx context.Context, id uint64) error {
	const q = `UPDATE payments SET status = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, model.PaymentFailed, id, model.PaymentPending)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotPending
	}
	return nil
}

// Refund reverses a completed payment: payment to REFUNDED, booking to
// REFUNDED, paid and checked-in tickets to REFUNDED with their seat
// claims released, all in one transaction.  A payment that is not
// COMPLETED returns ErrPaymentNotCompleted untouched.
func (r *PaymentRepo) Refund(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var bookingID uint64
	const sel = `SELECT booking_id FROM payments WHERE id = ? AND status = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, sel, id, model.PaymentCompleted).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotCompleted
	}
	if err != nil {
		return err
	}

	const payQ = `UPDATE payments SET status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, payQ, model.PaymentRefunded, id); err != nil {
		return err
	}
	const bookingQ = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	if _, err := tx.ExecContext(ctx, bookingQ, model.BookingRefunded, bookingID, model.BookingPaid); err != nil {
		return err
	}
	const ticketsQ = `UPDATE tickets SET status = ?, active = NULL
	                  WHERE booking_id = ? AND status IN (?, ?)`
	if _, err := tx.ExecContext(ctx, ticketsQ, model.TicketRefunded, bookingID,
		model.TicketPaid, model.TicketCheckedIn); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a payment by id, or ErrPaymentNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, provider, external_ref, status, paid_at, created_at
	           FROM payments WHERE id = ?`
	var p model.Payment
	var ref sql.NullString
	var paidAt sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.BookingID, &p.AmountCents, &p.Provider, &ref, &p.Status, &paidAt, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if ref.Valid {
		v := ref.String
		p.ExternalRef = &v
	}
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		p.PaidAt = &t
	}
	return &p, nil
}

// GetWithBooking returns a payment together with its booking, for
// ownership and window checks before refunding.
func (r *PaymentRepo) GetWithBooking(ctx context.Context, id uint64) (*model.Payment, *model.Booking, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	const q = `SELECT id, user_id, showtime_id, status, total_amount_cents, created_at, expires_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err = r.db.QueryRowContext(ctx, q, p.BookingID).Scan(
		&b.ID, &b.UserID, &b.ShowtimeID, &b.Status, &b.TotalAmountCents,
		&b.CreatedAt, &b.ExpiresAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return p, &b, nil
}
