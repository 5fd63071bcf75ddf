package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/engine"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// BookingHandler serves the booking endpoints.  Writes go through the
// engine, which owns the reservation rules; reads go straight to the
// repository.
type BookingHandler struct {
	Engine      *engine.Engine
	BookingRepo *repository.BookingRepo

	now func() time.Time
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies
// must be non-nil.
func NewBookingHandler(e *engine.Engine, bookingRepo *repository.BookingRepo) *BookingHandler {
	if e == nil || bookingRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: e, BookingRepo: bookingRepo, now: time.Now}
}

// Create handles POST /v1/bookings.  The body names a showtime and the
// seats to reserve; on success the response is 201 with the pending
// booking, its payment deadline and the frozen ticket prices.  Seats
// that are already taken produce 409 with their labels.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowtimeID uint64   `json:"showtime_id"`
		SeatIDs    []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}

	booking, tickets, err := h.Engine.CreateBooking(c.Request().Context(), userID, body.ShowtimeID, body.SeatIDs)
	if err != nil {
		return engineError(c, err)
	}

	lines := make([]echo.Map, 0, len(tickets))
	for _, t := range tickets {
		lines = append(lines, echo.Map{
			"seat_id":     t.SeatID,
			"price_cents": t.PriceCents,
			"status":      t.Status,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                 booking.ID,
		"showtime_id":        booking.ShowtimeID,
		"status":             booking.Status,
		"total_amount_cents": booking.TotalAmountCents,
		"expires_at":         booking.ExpiresAt.UTC().Format(time.RFC3339),
		"tickets":            lines,
	})
}

// Cancel handles POST /v1/bookings/:id/cancel.  Only the owner may
// cancel, and only while the booking is still pending.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	booking, err := h.Engine.CancelBooking(c.Request().Context(), userID, bookingID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":     booking.ID,
		"status": booking.Status,
	})
}

// List handles GET /v1/bookings and returns the caller's bookings with
// their tickets and payment summaries, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Get handles GET /v1/bookings/:id.  Bookings owned by other users are
// reported as not found.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	detail, err := h.BookingRepo.GetDetailForUser(c.Request().Context(), bookingID, userID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":           detail,
		"remaining_seconds": detail.Remaining(h.now().UTC()),
	})
}
