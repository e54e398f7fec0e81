// Package router maps the HTTP surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// dependencies beyond the Echo instance itself.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic wires the guest-facing API: catalog browsing, the
// availability probe and the reservation flow.  The response cache
// fronts only the catalog reads; availability and reservations must
// always hit the database.  The rate limiter covers everything public.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, r *handler.ReservationHandler, w *handler.WebhookHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	catalog := e.Group("/v1", limiter, cache)
	catalog.GET("/rooms", p.GetRooms)
	catalog.GET("/rooms/:id", p.GetRoom)
	catalog.GET("/plans", p.GetPlans)

	booking := e.Group("/v1", limiter)
	booking.GET("/rooms/:id/availability", r.GetAvailability)
	booking.POST("/reservations", r.CreateReservation)
	booking.GET("/reservations/:id", r.GetReservation)

	// The webhook authenticates via its HMAC signature, not a session,
	// and the provider's retries must not be rate limited.
	e.POST("/v1/payment/webhook", w.HandlePayment)
}

// RegisterAuth wires the staff session endpoints.  Login, refresh and
// logout are open; /v1/me sits behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/v1/auth", limiter)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
