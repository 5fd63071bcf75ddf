package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/engine"
)

// TicketHandler serves ticket check-in.
type TicketHandler struct {
	Engine *engine.Engine
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(e *engine.Engine) *TicketHandler {
	if e == nil {
		panic("nil engine passed to NewTicketHandler")
	}
	return &TicketHandler{Engine: e}
}

// CheckIn handles POST /v1/tickets/:id/check-in.  The gate accepts a
// paid ticket from 30 minutes before the screening until it ends; a
// second scan of the same ticket is rejected.
func (h *TicketHandler) CheckIn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ticket, err := h.Engine.CheckIn(c.Request().Context(), userID, ticketID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          ticket.ID,
		"booking_id":  ticket.BookingID,
		"showtime_id": ticket.ShowtimeID,
		"seat_id":     ticket.SeatID,
		"status":      ticket.Status,
	})
}
