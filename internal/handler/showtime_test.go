package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/booking-engine/internal/repository"
)

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newShowtimeHandler(t *testing.T, now time.Time) (*ShowtimeHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := &ShowtimeHandler{
		MovieRepo:      repository.NewMovieRepo(db),
		AuditoriumRepo: repository.NewAuditoriumRepo(db),
		ShowtimeRepo:   repository.NewShowtimeRepo(db),
		SeatRepo:       repository.NewSeatRepo(db),
		TicketRepo:     repository.NewTicketRepo(db),
		now:            func() time.Time { return now },
	}
	return h, mock
}

func TestCreateShowtimeRejectsStartBeforeClock(t *testing.T) {
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	h, mock := newShowtimeHandler(t, clock)

	body := `{"movie_id":1,"auditorium_id":2,"starts_at":"2026-06-01T11:00:00Z","base_price_cents":10000}`
	c, rec := newJSONContext(http.MethodPost, "/v1/showtimes", body)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "starts_at must be in the future")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShowtimeStartCheckedAgainstHandlerClock(t *testing.T) {
	// The clock is pinned well before the requested start, so a start
	// that has long passed on the wall clock is still accepted by the
	// window check and the request proceeds to the movie lookup.
	clock := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	h, mock := newShowtimeHandler(t, clock)

	mock.ExpectQuery("SELECT id, title, duration_min").
		WillReturnError(sql.ErrNoRows)

	body := `{"movie_id":1,"auditorium_id":2,"starts_at":"2020-06-01T20:00:00Z","base_price_cents":10000}`
	c, rec := newJSONContext(http.MethodPost, "/v1/showtimes", body)

	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "movie not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
