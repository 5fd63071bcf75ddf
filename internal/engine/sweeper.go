package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/filmgrid/booking-engine/internal/model"
	"github.com/filmgrid/booking-engine/internal/repository"
)

// SweepExpired cancels pending bookings whose payment window has
// closed, moving them to CANCELED_EXPIRED and releasing their seats.
// Each booking is canceled independently so one failure never blocks
// the rest; a booking that was paid or canceled between the listing and
// the cancel is simply skipped.  Returns how many bookings were swept.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	now := e.now().UTC()
	expired, err := e.bookings.ListExpired(ctx, now, e.sweepBatch)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, b := range expired {
		err := e.bookings.Cancel(ctx, b.ID, model.BookingCanceledExpired)
		if errors.Is(err, repository.ErrBookingNotPending) {
			continue
		}
		if err != nil {
			log.Printf("sweeper: cancel booking %d: %v", b.ID, err)
			continue
		}
		swept++
		e.invalidateSeatMap(ctx, b.ShowtimeID)
	}
	return swept, nil
}

// Run sweeps expired bookings on a fixed interval until the context is
// canceled.  Meant to run in its own goroutine next to the server.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Printf("sweeper: running every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper: stopped")
			return
		case <-ticker.C:
			n, err := e.SweepExpired(ctx)
			if err != nil {
				log.Printf("sweeper: pass failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweeper: canceled %d expired bookings", n)
			}
		}
	}
}
