package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/filmgrid/booking-engine/internal/model"
)

// AuditoriumRepo persists auditoriums and drives seat generation.  Seat
// rows are owned by their auditorium: creating an auditorium inserts
// the full seat plan in the same transaction, and regeneration deletes
// and recreates it.
type AuditoriumRepo struct {
	db *sql.DB
}

// NewAuditoriumRepo returns a new AuditoriumRepo bound to the given database.
func NewAuditoriumRepo(db *sql.DB) *AuditoriumRepo { return &AuditoriumRepo{db: db} }

// CreateWithSeats inserts the auditorium and its generated seats in one
// transaction.  The seats carry no auditorium id yet; it is assigned
// from the freshly inserted row.  A duplicate name maps to
// ErrDuplicateName.
func (r *AuditoriumRepo) CreateWithSeats(ctx context.Context, a *model.Auditorium, seats []model.Seat) error {
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

	const ins = `INSERT INTO auditoriums (name, standard_rows, vip_rows, couple_rows, seats_per_row)
	             VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, a.Name, a.StandardRows, a.VIPRows, a.CoupleRows, a.SeatsPerRow)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	for i := range seats {
		seats[i].AuditoriumID = a.ID
	}
	if err := insertSeatsBulkTx(ctx, tx, seats); err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM auditoriums WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RegenerateSeats replaces the auditorium's seat plan and persists the
// new layout counts in the same transaction, so the stored row counts
// and the actual seats can never disagree.  Deletion fails with
// ErrSeatsInUse while any ticket still references a seat (the FK is
// RESTRICT), which is intentional: issued tickets must never dangle.
func (r *AuditoriumRepo) RegenerateSeats(ctx context.Context, a *model.Auditorium, seats []model.Seat) error {
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

	const upd = `UPDATE auditoriums SET standard_rows = ?, vip_rows = ?, couple_rows = ?, seats_per_row = ?
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, a.StandardRows, a.VIPRows, a.CoupleRows, a.SeatsPerRow, a.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE auditorium_id = ?`, a.ID); err != nil {
		if isRowReferenced(err) {
			return ErrSeatsInUse
		}
		return err
	}
	for i := range seats {
		seats[i].AuditoriumID = a.ID
	}
	if err := insertSeatsBulkTx(ctx, tx, seats); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns an auditorium by id, or ErrAuditoriumNotFound.
func (r *AuditoriumRepo) GetByID(ctx context.Context, id uint64) (*model.Auditorium, error) {
	const q = `SELECT id, name, standard_rows, vip_rows, couple_rows, seats_per_row, created_at, updated_at
	           FROM auditoriums WHERE id = ?`
	var a model.Auditorium
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.StandardRows, &a.VIPRows, &a.CoupleRows, &a.SeatsPerRow,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuditoriumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
