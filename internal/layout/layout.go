// Package layout generates the seat plan of an auditorium from its row
// configuration.  It is a pure function of the configuration so seat
// generation can be tested independently of persistence and booking.
package layout

import (
	"errors"
	"fmt"

	"github.com/filmgrid/booking-engine/internal/model"
)

// Physical limits of an auditorium grid.  Twelve rows cover labels A
// through L; rows beyond that have no label assigned.
const (
	MaxRows        = 12
	MaxSeatsPerRow = 20
)

var rowLabels = [MaxRows]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// Config is the row layout of an auditorium: standard rows come first
// (front of the room), then VIP rows, then couple rows, each holding
// SeatsPerRow seats.
type Config struct {
	StandardRows uint32
	VIPRows      uint32
	CoupleRows   uint32
	SeatsPerRow  uint32
}

// SeatSpec describes one seat to be created.
type SeatSpec struct {
	RowLabel   string
	SeatNumber uint32
	SeatType   model.SeatType
}

// Validate checks the configuration against the grid limits.
func (c Config) Validate() error {
	total := c.StandardRows + c.VIPRows + c.CoupleRows
	if total == 0 {
		return errors.New("layout must have at least one row")
	}
	if total > MaxRows {
		return fmt.Errorf("layout exceeds %d rows", MaxRows)
	}
	if c.SeatsPerRow == 0 {
		return errors.New("layout must have at least one seat per row")
	}
	if c.SeatsPerRow > MaxSeatsPerRow {
		return fmt.Errorf("layout exceeds %d seats per row", MaxSeatsPerRow)
	}
	return nil
}

// Generate expands the configuration into the full list of seats, in
// row-major order with standard rows first, then VIP, then couple.
func Generate(c Config) ([]SeatSpec, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	specs := make([]SeatSpec, 0, int(c.StandardRows+c.VIPRows+c.CoupleRows)*int(c.SeatsPerRow))
	row := 0
	for _, block := range []struct {
		rows     uint32
		seatType model.SeatType
	}{
		{c.StandardRows, model.SeatStandard},
		{c.VIPRows, model.SeatVIP},
		{c.CoupleRows, model.SeatCouple},
	} {
		for r := uint32(0); r < block.rows; r++ {
			label := rowLabels[row]
			for n := uint32(1); n <= c.SeatsPerRow; n++ {
				specs = append(specs, SeatSpec{RowLabel: label, SeatNumber: n, SeatType: block.seatType})
			}
			row++
		}
	}
	return specs, nil
}
