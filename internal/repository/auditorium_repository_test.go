package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/booking-engine/internal/model"
)

func regenerateFixture() (*model.Auditorium, []model.Seat) {
	a := &model.Auditorium{
		ID:           9,
		Name:         "Screen 1",
		StandardRows: 2,
		VIPRows:      1,
		CoupleRows:   1,
		SeatsPerRow:  4,
	}
	seats := []model.Seat{
		{RowLabel: "A", SeatNumber: 1, SeatType: model.SeatStandard},
		{RowLabel: "A", SeatNumber: 2, SeatType: model.SeatStandard},
	}
	return a, seats
}

func TestRegenerateSeatsPersistsCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, seats := regenerateFixture()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE auditoriums SET standard_rows = ?, vip_rows = ?, couple_rows = ?, seats_per_row = ?`)).
		WithArgs(int64(2), int64(1), int64(1), int64(4), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seats WHERE auditorium_id = ?`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seats (auditorium_id, row_label, seat_number, seat_type) VALUES (?, ?, ?, ?),(?, ?, ?, ?)`)).
		WithArgs(int64(9), "A", int64(1), "STANDARD", int64(9), "A", int64(2), "STANDARD").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	repo := NewAuditoriumRepo(db)
	err = repo.RegenerateSeats(context.Background(), a, seats)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegenerateSeatsReferencedByTickets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, seats := regenerateFixture()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE auditoriums SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM seats WHERE auditorium_id = ?`)).
		WillReturnError(errors.New("Error 1451 (23000): Cannot delete or update a parent row: a foreign key constraint fails"))
	mock.ExpectRollback()

	repo := NewAuditoriumRepo(db)
	err = repo.RegenerateSeats(context.Background(), a, seats)

	assert.ErrorIs(t, err, ErrSeatsInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegenerateSeatsDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a, seats := regenerateFixture()
	boom := errors.New("driver: bad connection")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE auditoriums SET`)).
		WillReturnError(boom)
	mock.ExpectRollback()

	repo := NewAuditoriumRepo(db)
	err = repo.RegenerateSeats(context.Background(), a, seats)

	// Infrastructure failures pass through untouched so callers do not
	// mistake them for the seats-in-use conflict.
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSeatsInUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}
