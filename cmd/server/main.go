package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/filmgrid/booking-engine/internal/cache"
	"github.com/filmgrid/booking-engine/internal/config"
	"github.com/filmgrid/booking-engine/internal/database"
	"github.com/filmgrid/booking-engine/internal/engine"
	"github.com/filmgrid/booking-engine/internal/handler"
	"github.com/filmgrid/booking-engine/internal/queue"
	"github.com/filmgrid/booking-engine/internal/repository"
	"github.com/filmgrid/booking-engine/internal/router"
	"github.com/filmgrid/booking-engine/internal/service"
)

func main() {
	// .env is optional; production sets real environment variables.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the seat-map cache; both degrade
	// gracefully when it is absent.
	rdb := config.NewRedisClient()
	seatMap := cache.NewSeatMap(rdb, time.Duration(cfg.SeatMapTTLSec)*time.Second)

	movieRepo := repository.NewMovieRepo(db)
	auditoriumRepo := repository.NewAuditoriumRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	eng := engine.New(showtimeRepo, seatRepo, bookingRepo, ticketRepo, paymentRepo, service.NewTxnProvider()).
		WithEvents(service.NewQueuePublisher()).
		WithSeatMapCache(seatMap)

	// Background expiry sweeper; bookings are also swept inline on the
	// hot paths, the timer just keeps seats from lingering when traffic
	// is quiet.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go eng.Run(sweepCtx, time.Duration(cfg.SweepIntervalSec)*time.Second)

	// Settlement event consumer; reconnects on its own.
	go func() {
		if err := queue.StartSettlementConsumer(); err != nil {
			log.Printf("settlement consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Movies:      handler.NewMovieHandler(movieRepo),
		Auditoriums: handler.NewAuditoriumHandler(auditoriumRepo, seatRepo),
		Showtimes:   handler.NewShowtimeHandler(movieRepo, auditoriumRepo, showtimeRepo, seatRepo, ticketRepo, seatMap),
		Bookings:    handler.NewBookingHandler(eng, bookingRepo),
		Payments:    handler.NewPaymentHandler(eng),
		Tickets:     handler.NewTicketHandler(eng),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
