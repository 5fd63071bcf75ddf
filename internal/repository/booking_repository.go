package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/filmgrid/booking-engine/internal/model"
)

// BookingRepo persists bookings and their tickets.  Tickets never
// change hands: they are inserted with their booking and only ever
// transition status afterwards.  The seat claim is enforced by the
// tickets unique key (showtime_id, seat_id, active), where active is 1
// for claiming statuses and NULL once the ticket is canceled or
// refunded, so released seats can be claimed again while history rows
// remain.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateWithTickets inserts the booking and all its tickets in one
// transaction.  This is the serialization point for seat claims: a
// concurrent booking that grabbed any of the same seats first makes the
// bulk insert trip the unique key, the whole transaction rolls back and
// ErrSeatTaken is returned.  No partial booking is ever persisted.
func (r *BookingRepo) CreateWithTickets(ctx context.Context, b *model.Booking, tickets []model.Ticket) error {
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

	const ins = `INSERT INTO bookings (user_id, showtime_id, status, total_amount_cents, expires_at)
	             VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, b.UserID, b.ShowtimeID, b.Status, b.TotalAmountCents, b.ExpiresAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	query := `INSERT INTO tickets (booking_id, showtime_id, seat_id, price_cents, status, active) VALUES `
	args := make([]interface{}, 0, len(tickets)*5)
	for i := range tickets {
		tickets[i].BookingID = b.ID
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, 1)"
		args = append(args, b.ID, tickets[i].ShowtimeID, tickets[i].SeatID, tickets[i].PriceCents, tickets[i].Status)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicate(err) {
			return ErrSeatTaken
		}
		return err
	}

	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a booking by id, or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, showtime_id, status, total_amount_cents, created_at, expires_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ShowtimeID, &b.Status, &b.TotalAmountCents,
		&b.CreatedAt, &b.ExpiresAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Cancel moves a pending booking to the given terminal status and
// cascades its reserved tickets to CANCELED, releasing their seat
// claims, in one transaction.  The UPDATE is conditioned on the booking
// still being PENDING so a concurrent payment or sweep that committed
// first wins; in that case ErrBookingNotPending is returned and nothing
// is written.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, to model.BookingStatus) error {
	if !to.Terminal() {
		return errors.New("cancel target must be a terminal status")
	}
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

	const upd = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	result, err := tx.ExecContext(ctx, upd, to, id, model.BookingPending)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotPending
	}
	const tickets = `UPDATE tickets SET status = ?, active = NULL WHERE booking_id = ? AND status = ?`
	if _, err := tx.ExecContext(ctx, tickets, model.TicketCanceled, id, model.TicketReserved); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListExpired returns pending bookings whose payment window closed
// before cutoff, oldest first, up to limit rows.  Only the fields the
// sweeper needs are populated.
func (r *BookingRepo) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]model.Booking, error) {
	const q = `SELECT id, showtime_id FROM bookings
	           WHERE status = ? AND expires_at < ?
	           ORDER BY expires_at
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.BookingPending, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	expired := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ShowtimeID); err != nil {
			return nil, err
		}
		b.Status = model.BookingPending
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

// TicketLine is one ticket inside a BookingDetail.
type TicketLine struct {
	TicketID   uint64             `json:"ticket_id"`
	SeatID     uint64             `json:"seat_id"`
	SeatLabel  string             `json:"seat_label"`
	SeatType   model.SeatType     `json:"seat_type"`
	PriceCents int64              `json:"price_cents"`
	Status     model.TicketStatus `json:"status"`
}

// PaymentInfo is the payment summary attached to a BookingDetail.
type PaymentInfo struct {
	PaymentID   uint64              `json:"payment_id"`
	Status      model.PaymentStatus `json:"status"`
	Provider    string              `json:"provider"`
	ExternalRef *string             `json:"external_ref,omitempty"`
	PaidAt      *string             `json:"paid_at,omitempty"`
}

// BookingDetail is a booking with its showtime context, tickets and
// optional payment, assembled for display to the owning user.
type BookingDetail struct {
	ID               uint64              `json:"id"`
	ShowtimeID       uint64              `json:"showtime_id"`
	Status           model.BookingStatus `json:"status"`
	TotalAmountCents int64               `json:"total_amount_cents"`
	MovieTitle       string              `json:"movie_title"`
	AuditoriumName   string              `json:"auditorium_name"`
	StartsAt         string              `json:"starts_at"`
	EndsAt           string              `json:"ends_at"`
	CreatedAt        string              `json:"created_at"`
	ExpiresAt        string              `json:"expires_at"`
	Tickets          []TicketLine        `json:"tickets"`
	Payment          *PaymentInfo        `json:"payment,omitempty"`

	// expiresAtRaw keeps the parsed instant for remaining-time math
	// without re-parsing the formatted string.
	expiresAtRaw time.Time
	statusRaw    model.BookingStatus
}

// Remaining returns the seconds left to pay at the given instant, zero
// for non-pending bookings.
func (d *BookingDetail) Remaining(now time.Time) int64 {
	b := model.Booking{Status: d.statusRaw, ExpiresAt: d.expiresAtRaw}
	return b.RemainingSeconds(now)
}

const bookingDetailQ = `SELECT b.id, b.showtime_id, b.status, b.total_amount_cents,
                               b.created_at, b.expires_at,
                               m.title, a.name, s.starts_at, s.ends_at
                        FROM bookings b
                        JOIN showtimes s ON s.id = b.showtime_id
                        JOIN movies m ON m.id = s.movie_id
                        JOIN auditoriums a ON a.id = s.auditorium_id`

func scanBookingDetail(scan func(dest ...interface{}) error) (*BookingDetail, error) {
	var d BookingDetail
	var createdAt, expiresAt, startsAt, endsAt time.Time
	if err := scan(
		&d.ID, &d.ShowtimeID, &d.Status, &d.TotalAmountCents,
		&createdAt, &expiresAt,
		&d.MovieTitle, &d.AuditoriumName, &startsAt, &endsAt,
	); err != nil {
		return nil, err
	}
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	d.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
	d.StartsAt = startsAt.UTC().Format(time.RFC3339)
	d.EndsAt = endsAt.UTC().Format(time.RFC3339)
	d.expiresAtRaw = expiresAt.UTC()
	d.statusRaw = d.Status
	d.Tickets = []TicketLine{}
	return &d, nil
}

// ListByUser returns all bookings of the given user with showtime,
// ticket and payment details, newest first.  Tickets for all bookings
// are fetched in a single IN query and stitched onto their bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*BookingDetail, error) {
	q := bookingDetailQ + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]*BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	if err := r.attachTickets(ctx, details, index); err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, details, index); err != nil {
		return nil, err
	}
	return details, nil
}

// GetDetailForUser returns one booking with full details, enforcing
// ownership: a booking that exists but belongs to someone else is
// reported as not found, matching what the list endpoint exposes.
func (r *BookingRepo) GetDetailForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	q := bookingDetailQ + ` WHERE b.id = ? AND b.user_id = ?`
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID, userID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	details := []*BookingDetail{d}
	index := map[uint64]int{d.ID: 0}
	if err := r.attachTickets(ctx, details, index); err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, details, index); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *BookingRepo) attachTickets(ctx context.Context, details []*BookingDetail, index map[uint64]int) error {
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT t.booking_id, t.id, t.seat_id, se.row_label, se.seat_number, se.seat_type, t.price_cents, t.status
	          FROM tickets t
	          JOIN seats se ON se.id = t.seat_id
	          WHERE t.booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY t.booking_id, se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID uint64
		var line TicketLine
		var rowLabel string
		var seatNumber uint32
		if err := rows.Scan(&bookingID, &line.TicketID, &line.SeatID, &rowLabel, &seatNumber, &line.SeatType, &line.PriceCents, &line.Status); err != nil {
			return err
		}
		seat := model.Seat{RowLabel: rowLabel, SeatNumber: seatNumber}
		line.SeatLabel = seat.Label()
		idx, ok := index[bookingID]
		if !ok {
			continue
		}
		details[idx].Tickets = append(details[idx].Tickets, line)
	}
	return rows.Err()
}

func (r *BookingRepo) attachPayments(ctx context.Context, details []*BookingDetail, index map[uint64]int) error {
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	query := `SELECT booking_id, id, status, provider, external_ref, paid_at
	          FROM payments
	          WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookingID uint64
		var info PaymentInfo
		var ref sql.NullString
		var paidAt sql.NullTime
		if err := rows.Scan(&bookingID, &info.PaymentID, &info.Status, &info.Provider, &ref, &paidAt); err != nil {
			return err
		}
		if ref.Valid {
			v := ref.String
			info.ExternalRef = &v
		}
		if paidAt.Valid {
			iso := paidAt.Time.UTC().Format(time.RFC3339)
			info.PaidAt = &iso
		}
		idx, ok := index[bookingID]
		if !ok {
			continue
		}
		details[idx].Payment = &info
	}
	return rows.Err()
}
