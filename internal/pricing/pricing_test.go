package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filmgrid/booking-engine/internal/model"
)

func TestTicketPriceCents(t *testing.T) {
	cases := []struct {
		name     string
		base     int64
		seatType model.SeatType
		want     int64
	}{
		{"standard", 10000, model.SeatStandard, 10000},
		{"vip", 10000, model.SeatVIP, 15000},
		{"couple", 10000, model.SeatCouple, 30000},
		{"vip odd cents stays exact", 999, model.SeatVIP, 1498},
		{"unknown type falls back to base", 10000, model.SeatType("RECLINER"), 10000},
		{"zero base", 0, model.SeatCouple, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TicketPriceCents(tc.base, tc.seatType))
		})
	}
}
