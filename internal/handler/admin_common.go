package handler

import (
	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// AdminHandler bundles everything the dashboard endpoints need: catalog
// repositories for room/plan management and the booking engine for
// reservation lifecycle operations.
type AdminHandler struct {
	Rooms        *repository.RoomRepo
	Plans        *repository.PlanRepo
	Reservations *repository.ReservationRepo
	Engine       *booking.Engine
}

func NewAdminHandler(rooms *repository.RoomRepo, plans *repository.PlanRepo, res *repository.ReservationRepo, eng *booking.Engine) *AdminHandler {
	return &AdminHandler{Rooms: rooms, Plans: plans, Reservations: res, Engine: eng}
}
