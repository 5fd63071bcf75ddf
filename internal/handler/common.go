package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/engine"
)

// getUserID extracts the authenticated user id placed in the context by
// the JWT middleware.  Tokens minted elsewhere may carry the subject as
// a number or a string, so both are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// engineError maps the engine's error kinds to HTTP responses.
// Validation and precondition failures are 400, lost seat races are 409
// with the losing seat labels, missing or foreign records are 404 and
// anything else is a logged 500.
func engineError(c echo.Context, err error) error {
	var validation *engine.ValidationError
	var conflict *engine.ConflictError
	var precondition *engine.PreconditionError
	var notFound *engine.NotFoundError
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validation.Msg})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Msg, "seats": conflict.Seats})
	case errors.As(err, &precondition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": precondition.Msg})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Msg})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
