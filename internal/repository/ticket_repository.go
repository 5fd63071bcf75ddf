package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/filmgrid/booking-engine/internal/model"
)

// TicketRepo provides ticket reads and the check-in transition.
// Ticket creation and the paid/canceled/refunded cascades live on
// BookingRepo and PaymentRepo, which own those transactions.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// OccupiedLabels returns the seat labels among the given seat ids that
// already carry an active ticket for the showtime, ordered by row and
// number.  Used to name the losing seats in a booking conflict.
func (r *TicketRepo) OccupiedLabels(ctx context.Context, showtimeID uint64, seatIDs []uint64) ([]string, error) {
	if len(seatIDs) == 0 {
		return []string{}, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+4)
	args = append(args, showtimeID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	args = append(args, model.TicketReserved, model.TicketPaid, model.TicketCheckedIn)
	query := `SELECT se.row_label, se.seat_number
	          FROM tickets t
	          JOIN seats se ON se.id = t.seat_id
	          WHERE t.showtime_id = ? AND t.seat_id IN (` + strings.Join(placeholders, ",") + `)
	            AND t.status IN (?, ?, ?)
	          ORDER BY se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := make([]string, 0)
	for rows.Next() {
		var rowLabel string
		var seatNumber uint32
		if err := rows.Scan(&rowLabel, &seatNumber); err != nil {
			return nil, err
		}
		s := model.Seat{RowLabel: rowLabel, SeatNumber: seatNumber}
		labels = append(labels, s.Label())
	}
	return labels, rows.Err()
}

// ActiveSeatIDs returns the ids of seats claimed by an active ticket
// for the showtime, for marking taken seats on the seat map.
func (r *TicketRepo) ActiveSeatIDs(ctx context.Context, showtimeID uint64) (map[uint64]struct{}, error) {
	const q = `SELECT seat_id FROM tickets
	           WHERE showtime_id = ? AND status IN (?, ?, ?)`
	rows, err := r.db.QueryContext(ctx, q, showtimeID,
		model.TicketReserved, model.TicketPaid, model.TicketCheckedIn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken[id] = struct{}{}
	}
	return taken, rows.Err()
}

// GetWithOwner returns a ticket together with the user id of the
// booking that owns it, or ErrTicketNotFound.
func (r *TicketRepo) GetWithOwner(ctx context.Context, id uint64) (*model.Ticket, uint64, error) {
	const q = `SELECT t.id, t.booking_id, t.showtime_id, t.seat_id, t.price_cents, t.status, t.booked_at, b.user_id
	           FROM tickets t
	           JOIN bookings b ON b.id = t.booking_id
	           WHERE t.id = ?`
	var t model.Ticket
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.BookingID, &t.ShowtimeID, &t.SeatID, &t.PriceCents, &t.Status, &t.BookedAt, &ownerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrTicketNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return &t, ownerID, nil
}

// CheckIn marks a paid ticket as checked in.  The update is conditioned
// on the ticket still being PAID so a second scan of the same ticket
// gets ErrTicketNotPaid instead of silently succeeding.
func (r *TicketRepo) CheckIn(ctx context.Context, id uint64) error {
	const q = `UPDATE tickets SET status = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, model.TicketCheckedIn, id, model.TicketPaid)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotPaid
	}
	return nil
}
