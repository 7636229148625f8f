package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/config"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/handler"
	"github.com/SDN-Group5/Event-Ticketing-Platform-sub002/internal/middleware"
)

// Deps bundles everything route registration needs.  Redis may be nil, in
// which case the rate limiter and response cache register as pass-through.
type Deps struct {
	Reservation *handler.ReservationHandler
	Seats       *handler.SeatsHandler
	Generation  *handler.GenerationHandler
	Redis       *redis.Client
	JWTSecret   string
	RateLimit   config.RateLimitConfig
	Cache       config.CacheConfig
}

// RegisterRoutes wires all endpoints onto the Echo instance.
//
// Unauthenticated: health check and the Prometheus scrape endpoint.
// Everything under /v1 requires a verified caller token.  The reserve
// route additionally carries the token-bucket limiter (the on-sale burst
// path) and the availability read carries the response cache.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.Use(middleware.CallerAuth(d.JWTSecret))

	// Reservation engine transitions.
	v1.POST("/events/:event_id/zones/:zone_id/seats/reserve",
		d.Reservation.Reserve, middleware.NewTokenBucket(d.RateLimit, d.Redis))
	v1.POST("/seats/:id/purchase", d.Reservation.ConfirmPurchase)
	v1.DELETE("/seats/:id/reservation", d.Reservation.Release)

	// Read side.
	v1.GET("/events/:event_id/zones/:zone_id/seats", d.Seats.ListByZone)
	v1.GET("/layouts/:layout_id/zones/:zone_id/availability",
		d.Seats.Availability, middleware.NewRedisCache(d.Cache, d.Redis))

	// Layout collaborator: bulk seat generation.
	v1.POST("/layouts/:layout_id/zones/:zone_id/seats/generate", d.Generation.GenerateZone)
	v1.POST("/layouts/:layout_id/seats/regenerate", d.Generation.RegenerateLayout)
}
