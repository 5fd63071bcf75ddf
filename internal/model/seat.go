package model

import (
	"fmt"
	"time"
)

// SeatType classifies a seat for pricing purposes.
type SeatType string

const (
	SeatStandard SeatType = "STANDARD"
	SeatVIP      SeatType = "VIP"
	SeatCouple   SeatType = "COUPLE"
)

// PriceMultiplierHundredths maps a seat type to its price multiplier
// expressed in hundredths, so VIP (x1.5) and COUPLE (x3.0) pricing
// stays exact in integer cents.  Unknown seat types fall back to 100
// (x1.0) at the pricing layer rather than failing.
var PriceMultiplierHundredths = map[SeatType]int64{
	SeatStandard: 100,
	SeatVIP:      150,
	SeatCouple:   300,
}

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
	_, ok := PriceMultiplierHundredths[t]
	return ok
}

// Seat describes a physical seat in an auditorium.  Seats are uniquely
// identified by their auditorium, row label and seat number, and are
// immutable once generated except through auditorium regeneration.
//
// Fields:
//  ID           – primary key identifier.
//  AuditoriumID – auditorium to which this seat belongs.
//  RowLabel     – letter designating the row (A..L).
//  SeatNumber   – number of the seat within the row.
//  SeatType     – type of seat (STANDARD, VIP, COUPLE).
//  CreatedAt    – creation timestamp.
type Seat struct {
	ID           uint64    // seats.id
	AuditoriumID uint64    // seats.auditorium_id
	RowLabel     string    // seats.row_label
	SeatNumber   uint32    // seats.seat_number
	SeatType     SeatType  // seats.seat_type
	CreatedAt    time.Time // seats.created_at
}

// Label returns the human-readable seat label, e.g. "A1".  Conflict
// errors surface these labels so callers know which seats are taken.
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber)
}
