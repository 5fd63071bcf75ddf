package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/layout"
	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// AuditoriumHandler serves auditorium creation and seat-plan
// regeneration.
type AuditoriumHandler struct {
	AuditoriumRepo *repository.AuditoriumRepo
	SeatRepo       *repository.SeatRepo
}

// NewAuditoriumHandler constructs an AuditoriumHandler.
func NewAuditoriumHandler(auditoriumRepo *repository.AuditoriumRepo, seatRepo *repository.SeatRepo) *AuditoriumHandler {
	if auditoriumRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewAuditoriumHandler")
	}
	return &AuditoriumHandler{AuditoriumRepo: auditoriumRepo, SeatRepo: seatRepo}
}

type auditoriumBody struct {
	Name         string `json:"name"`
	StandardRows uint32 `json:"standard_rows"`
	VIPRows      uint32 `json:"vip_rows"`
	CoupleRows   uint32 `json:"couple_rows"`
	SeatsPerRow  uint32 `json:"seats_per_row"`
}

func (b *auditoriumBody) layoutConfig() layout.Config {
	return layout.Config{
		StandardRows: b.StandardRows,
		VIPRows:      b.VIPRows,
		CoupleRows:   b.CoupleRows,
		SeatsPerRow:  b.SeatsPerRow,
	}
}

func seatsFromSpecs(specs []layout.SeatSpec) []model.Seat {
	seats := make([]model.Seat, 0, len(specs))
	for _, sp := range specs {
		seats = append(seats, model.Seat{
			RowLabel:   sp.RowLabel,
			SeatNumber: sp.SeatNumber,
			SeatType:   sp.SeatType,
		})
	}
	return seats
}

// Create handles POST /v1/auditoriums.  The seat plan is generated from
// the row block counts: standard rows first, then VIP, then couple,
// each row holding seats_per_row seats.
func (h *AuditoriumHandler) Create(c echo.Context) error {
	var body auditoriumBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	specs, err := layout.Generate(body.layoutConfig())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	a := &model.Auditorium{
		Name:         body.Name,
		StandardRows: body.StandardRows,
		VIPRows:      body.VIPRows,
		CoupleRows:   body.CoupleRows,
		SeatsPerRow:  body.SeatsPerRow,
	}
	if err := h.AuditoriumRepo.CreateWithSeats(c.Request().Context(), a, seatsFromSpecs(specs)); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "auditorium name already in use"})
		}
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         a.ID,
		"name":       a.Name,
		"total_rows": a.TotalRows(),
		"seat_count": len(specs),
	})
}

// RegenerateSeats handles POST /v1/auditoriums/:id/regenerate-seats.
// It replaces the whole seat plan with the layout in the body and
// stores the new row counts alongside it.  Regeneration is rejected
// while any ticket still references a seat of this auditorium.
func (h *AuditoriumHandler) RegenerateSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body auditoriumBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	specs, err := layout.Generate(body.layoutConfig())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	a, err := h.AuditoriumRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAuditoriumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
		}
		return engineError(c, err)
	}
	a.StandardRows = body.StandardRows
	a.VIPRows = body.VIPRows
	a.CoupleRows = body.CoupleRows
	a.SeatsPerRow = body.SeatsPerRow
	if err := h.AuditoriumRepo.RegenerateSeats(ctx, a, seatsFromSpecs(specs)); err != nil {
		if errors.Is(err, repository.ErrSeatsInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats are referenced by issued tickets"})
		}
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            a.ID,
		"standard_rows": a.StandardRows,
		"vip_rows":      a.VIPRows,
		"couple_rows":   a.CoupleRows,
		"seats_per_row": a.SeatsPerRow,
		"seat_count":    len(specs),
	})
}

// Get handles GET /v1/auditoriums/:id and returns the auditorium with
// its full seat list.
func (h *AuditoriumHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	a, err := h.AuditoriumRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAuditoriumNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
	}
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.SeatRepo.ListByAuditorium(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	list := make([]echo.Map, 0, len(seats))
	for i := range seats {
		s := &seats[i]
		list = append(list, echo.Map{
			"id":          s.ID,
			"label":       s.Label(),
			"row_label":   s.RowLabel,
			"seat_number": s.SeatNumber,
			"seat_type":   s.SeatType,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            a.ID,
		"name":          a.Name,
		"standard_rows": a.StandardRows,
		"vip_rows":      a.VIPRows,
		"couple_rows":   a.CoupleRows,
		"seats_per_row": a.SeatsPerRow,
		"seats":         list,
	})
}
