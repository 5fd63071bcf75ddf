// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/filmgrid/booking-engine/internal/config"
	"github.com/filmgrid/booking-engine/internal/handler"
	"github.com/filmgrid/booking-engine/internal/middleware"
)

// Handlers bundles every handler the API exposes.
type Handlers struct {
	Movies      *handler.MovieHandler
	Auditoriums *handler.AuditoriumHandler
	Showtimes   *handler.ShowtimeHandler
	Bookings    *handler.BookingHandler
	Payments    *handler.PaymentHandler
	Tickets     *handler.TicketHandler
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the public browse endpoints and the JWT-protected
// booking, payment and check-in endpoints, with the Redis token-bucket
// limiter on the protected group.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	// Browse endpoints are public so guests can pick a seat before
	// signing in.
	e.GET("/v1/movies", h.Movies.List)
	e.GET("/v1/movies/:id", h.Movies.Get)
	e.GET("/v1/auditoriums/:id", h.Auditoriums.Get)
	e.GET("/v1/showtimes/:id", h.Showtimes.Get)
	e.GET("/v1/showtimes/:id/seats", h.Showtimes.Seats)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.NewTokenBucket(rlCfg, rdb))

	// Catalog and scheduling.
	auth.POST("/movies", h.Movies.Create)
	auth.POST("/auditoriums", h.Auditoriums.Create)
	auth.POST("/auditoriums/:id/regenerate-seats", h.Auditoriums.RegenerateSeats)
	auth.POST("/showtimes", h.Showtimes.Create)

	// Booking lifecycle.
	auth.POST("/bookings", h.Bookings.Create)
	auth.GET("/bookings", h.Bookings.List)
	auth.GET("/bookings/:id", h.Bookings.Get)
	auth.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	// Settlement and the door.
	auth.POST("/payments", h.Payments.Create)
	auth.GET("/payments/:id", h.Payments.Get)
	auth.POST("/payments/:id/refund", h.Payments.Refund)
	auth.POST("/tickets/:id/check-in", h.Tickets.CheckIn)
}
