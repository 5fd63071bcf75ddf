// Package pricing derives ticket prices.  Prices are computed once at
// ticket creation and frozen into the ticket row; nothing here has side
// effects.
package pricing

import "github.com/filmgrid/booking-engine/internal/model"

// TicketPriceCents returns the price of a seat for a showtime with the
// given base price, applying the seat-type multiplier.  Unknown seat
// types price at the base rate instead of failing.
func TicketPriceCents(basePriceCents int64, seatType model.SeatType) int64 {
	mult, ok := model.PriceMultiplierHundredths[seatType]
	if !ok {
		mult = 100
	}
	return basePriceCents * mult / 100
}
