package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/engine"
	"github.com/filmgrid/booking-engine/internal/model"
)

// PaymentHandler serves payment creation, lookup and refunds.
type PaymentHandler struct {
	Engine *engine.Engine
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(e *engine.Engine) *PaymentHandler {
	if e == nil {
		panic("nil engine passed to NewPaymentHandler")
	}
	return &PaymentHandler{Engine: e}
}

func paymentJSON(p *model.Payment) echo.Map {
	out := echo.Map{
		"id":           p.ID,
		"booking_id":   p.BookingID,
		"amount_cents": p.AmountCents,
		"provider":     p.Provider,
		"status":       p.Status,
	}
	if p.ExternalRef != nil {
		out["external_ref"] = *p.ExternalRef
	}
	if p.PaidAt != nil {
		out["paid_at"] = p.PaidAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Create handles POST /v1/payments.  The provider confirmation is
// synchronous: 201 carries either a COMPLETED payment with the booking
// flipped to PAID, or a FAILED one when the charge was declined.  Each
// booking settles at most once; after a decline the hold is left to
// expire.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID uint64 `json:"booking_id"`
		Provider  string `json:"provider"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}
	p, err := h.Engine.CreatePayment(c.Request().Context(), userID, body.BookingID, body.Provider)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, paymentJSON(p))
}

// Get handles GET /v1/payments/:id.  Payments of other users are
// reported as not found.
func (h *PaymentHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p, err := h.Engine.GetPayment(c.Request().Context(), userID, paymentID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, paymentJSON(p))
}

// Refund handles POST /v1/payments/:id/refund.  Refunds are allowed on
// completed payments until two hours before the screening; the whole
// booking chain is reversed and the seats become bookable again.
func (h *PaymentHandler) Refund(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a missing reason gets a default.
	_ = c.Bind(&body)

	p, err := h.Engine.Refund(c.Request().Context(), userID, paymentID, body.Reason)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, paymentJSON(p))
}
