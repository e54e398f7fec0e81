package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RegisterAdmin wires the dashboard under /v1/admin.  Every route
// requires a valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, ad *handler.AdminHandler, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/rooms", ad.ListRooms)
	g.POST("/rooms", ad.CreateRoom)
	g.PUT("/rooms/:id", ad.UpdateRoom)

	g.GET("/plans", ad.ListPlans)
	g.POST("/plans", ad.CreatePlan)
	g.PUT("/plans/:id", ad.UpdatePlan)

	g.GET("/reservations", ad.ListReservations)
	g.POST("/reservations/:id/cancel", ad.CancelReservation)
	g.POST("/reservations/:id/complete", ad.CompleteReservation)

	g.POST("/users", a.CreateUser)
}
