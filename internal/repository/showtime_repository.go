package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/filmgrid/booking-engine/internal/model"
)

// ShowtimeRepo persists scheduled screenings.  Creation enforces the
// no-overlap invariant per auditorium: the overlap query and the insert
// run inside one transaction, and the (auditorium_id, starts_at) unique
// key backstops exact-start races.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo returns a new ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// Create inserts a showtime after verifying that no existing showtime
// in the same auditorium overlaps [StartsAt, EndsAt).  Two screenings
// overlap when one starts before the other ends and vice versa.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
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

	const overlapQ = `SELECT id FROM showtimes
	                  WHERE auditorium_id = ? AND starts_at < ? AND ends_at > ?
	                  LIMIT 1`
	var overlapID uint64
	err = tx.QueryRowContext(ctx, overlapQ, st.AuditoriumID, st.EndsAt, st.StartsAt).Scan(&overlapID)
	if err == nil {
		return ErrShowtimeOverlap
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	const ins = `INSERT INTO showtimes (movie_id, auditorium_id, starts_at, ends_at, base_price_cents, status)
	             VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		st.MovieID, st.AuditoriumID, st.StartsAt, st.EndsAt, st.BasePriceCents, st.Status)
	if err != nil {
		if isDuplicate(err) {
			return ErrShowtimeOverlap
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, st.ID).Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a showtime by id, or ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, auditorium_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM showtimes WHERE id = ?`
	var st model.Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&st.ID, &st.MovieID, &st.AuditoriumID, &st.StartsAt, &st.EndsAt,
		&st.BasePriceCents, &st.Status, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowtimeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
