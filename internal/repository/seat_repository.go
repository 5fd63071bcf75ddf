package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/filmgrid/booking-engine/internal/model"
)

// SeatRepo provides read access to the seat inventory.  Seats are
// written only through AuditoriumRepo (creation and regeneration).
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// insertSeatsBulkTx inserts seat rows in a single statement within the
// given transaction.  Passing an empty slice has no effect.
func insertSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (auditorium_id, row_label, seat_number, seat_type) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.AuditoriumID, s.RowLabel, s.SeatNumber, s.SeatType)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByAuditorium returns all seats of an auditorium ordered by row
// and number, for deterministic seat-map output.
func (r *SeatRepo) ListByAuditorium(ctx context.Context, auditoriumID uint64) ([]model.Seat, error) {
	const q = `SELECT id, auditorium_id, row_label, seat_number, seat_type, created_at
	           FROM seats WHERE auditorium_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, auditoriumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AuditoriumID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ListByIDs returns the seats with the given ids that belong to the
// given auditorium.  A shorter result than ids means some seats do not
// exist or belong to a different room; the caller decides how to react.
func (r *SeatRepo) ListByIDs(ctx context.Context, auditoriumID uint64, ids []uint64) ([]model.Seat, error) {
	if len(ids) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, auditoriumID)
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT id, auditorium_id, row_label, seat_number, seat_type, created_at
	          FROM seats WHERE auditorium_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0, len(ids))
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AuditoriumID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
