package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/cache"
	"github.com/filmgrid/booking-engine/internal/layout"
	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/pricing"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// ShowtimeHandler serves showtime scheduling and the seat map.
type ShowtimeHandler struct {
	MovieRepo      *repository.MovieRepo
	AuditoriumRepo *repository.AuditoriumRepo
	ShowtimeRepo   *repository.ShowtimeRepo
	SeatRepo       *repository.SeatRepo
	TicketRepo     *repository.TicketRepo
	SeatMap        *cache.SeatMap

	now func() time.Time
}

// NewShowtimeHandler constructs a ShowtimeHandler.  The seat-map cache
// may be nil, in which case every seat map is rendered from the
// database.
func NewShowtimeHandler(movieRepo *repository.MovieRepo, auditoriumRepo *repository.AuditoriumRepo,
	showtimeRepo *repository.ShowtimeRepo, seatRepo *repository.SeatRepo,
	ticketRepo *repository.TicketRepo, seatMap *cache.SeatMap) *ShowtimeHandler {
	if movieRepo == nil || auditoriumRepo == nil || showtimeRepo == nil || seatRepo == nil || ticketRepo == nil {
		panic("nil repository passed to NewShowtimeHandler")
	}
	return &ShowtimeHandler{
		MovieRepo:      movieRepo,
		AuditoriumRepo: auditoriumRepo,
		ShowtimeRepo:   showtimeRepo,
		SeatRepo:       seatRepo,
		TicketRepo:     ticketRepo,
		SeatMap:        seatMap,
		now:            time.Now,
	}
}

func showtimeJSON(st *model.Showtime) echo.Map {
	return echo.Map{
		"id":               st.ID,
		"movie_id":         st.MovieID,
		"auditorium_id":    st.AuditoriumID,
		"starts_at":        st.StartsAt.UTC().Format(time.RFC3339),
		"ends_at":          st.EndsAt.UTC().Format(time.RFC3339),
		"base_price_cents": st.BasePriceCents,
		"status":           st.Status,
	}
}

// Create handles POST /v1/showtimes.  The end time is computed from the
// movie duration plus the turnaround buffer and frozen; a screening
// that would overlap an existing one in the same auditorium is 409.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var body struct {
		MovieID        uint64 `json:"movie_id"`
		AuditoriumID   uint64 `json:"auditorium_id"`
		StartsAt       string `json:"starts_at"`
		BasePriceCents int64  `json:"base_price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.AuditoriumID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and auditorium_id are required"})
	}
	if body.BasePriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_cents must be positive"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(h.now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx := c.Request().Context()
	movie, err := h.MovieRepo.GetByID(ctx, body.MovieID)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	if _, err := h.AuditoriumRepo.GetByID(ctx, body.AuditoriumID); err != nil {
		if errors.Is(err, repository.ErrAuditoriumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
		}
		return engineError(c, err)
	}

	st := &model.Showtime{
		MovieID:        body.MovieID,
		AuditoriumID:   body.AuditoriumID,
		StartsAt:       startsAt,
		EndsAt:         model.ScheduleEnd(startsAt, movie.DurationMin),
		BasePriceCents: body.BasePriceCents,
		Status:         model.ShowtimeScheduled,
	}
	if err := h.ShowtimeRepo.Create(ctx, st); err != nil {
		if errors.Is(err, repository.ErrShowtimeOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime overlaps an existing screening in this auditorium"})
		}
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, showtimeJSON(st))
}

// Get handles GET /v1/showtimes/:id.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	st, err := h.ShowtimeRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrShowtimeNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, showtimeJSON(st))
}

type seatMapSeat struct {
	ID         uint64         `json:"id"`
	Label      string         `json:"label"`
	SeatNumber uint32         `json:"seat_number"`
	SeatType   model.SeatType `json:"seat_type"`
	PriceCents int64          `json:"price_cents"`
	Taken      bool           `json:"taken"`
}

type seatMapRow struct {
	RowLabel string        `json:"row_label"`
	Seats    []seatMapSeat `json:"seats"`
}

type seatMapResponse struct {
	ShowtimeID     uint64       `json:"showtime_id"`
	AuditoriumID   uint64       `json:"auditorium_id"`
	StartsAt       string       `json:"starts_at"`
	TotalSeats     int          `json:"total_seats"`
	AvailableSeats int          `json:"available_seats"`
	Rows           []seatMapRow `json:"rows"`
}

// Seats handles GET /v1/showtimes/:id/seats.  The rendered map carries
// every seat with its current price and whether it is taken.  Responses
// are served from the short-TTL cache when possible; any booking,
// cancel, refund or sweep invalidates the entry.
func (h *ShowtimeHandler) Seats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if data, ok := h.SeatMap.Get(ctx, id); ok {
		return c.JSONBlob(http.StatusOK, data)
	}

	st, err := h.ShowtimeRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrShowtimeNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.SeatRepo.ListByAuditorium(ctx, st.AuditoriumID)
	if err != nil {
		return engineError(c, err)
	}
	taken, err := h.TicketRepo.ActiveSeatIDs(ctx, st.ID)
	if err != nil {
		return engineError(c, err)
	}

	resp := seatMapResponse{
		ShowtimeID:   st.ID,
		AuditoriumID: st.AuditoriumID,
		StartsAt:     st.StartsAt.UTC().Format(time.RFC3339),
		TotalSeats:   len(seats),
		Rows:         make([]seatMapRow, 0, layout.MaxRows),
	}
	// Seats arrive ordered by row then number, so rows can be built in
	// a single pass.
	for i := range seats {
		s := &seats[i]
		_, occupied := taken[s.ID]
		if !occupied {
			resp.AvailableSeats++
		}
		if n := len(resp.Rows); n == 0 || resp.Rows[n-1].RowLabel != s.RowLabel {
			resp.Rows = append(resp.Rows, seatMapRow{RowLabel: s.RowLabel})
		}
		row := &resp.Rows[len(resp.Rows)-1]
		row.Seats = append(row.Seats, seatMapSeat{
			ID:         s.ID,
			Label:      s.Label(),
			SeatNumber: s.SeatNumber,
			SeatType:   s.SeatType,
			PriceCents: pricing.TicketPriceCents(st.BasePriceCents, s.SeatType),
			Taken:      occupied,
		})
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return engineError(c, err)
	}
	h.SeatMap.Set(ctx, id, data)
	return c.JSONBlob(http.StatusOK, data)
}
