package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated catalog: the rooms and rate
// plans a guest can browse before booking.  Responses expose only the
// fields a guest needs; active flags and timestamps stay internal.
type PublicHandler struct {
	Rooms *repository.RoomRepo
	Plans *repository.PlanRepo
}

// PublicRoom is a room as shown to guests.
type PublicRoom struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Price    int64  `json:"price"`
}

// PublicPlan is a rate plan as shown to guests.
type PublicPlan struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
}

// GetRooms lists all active rooms.
func (h *PublicHandler) GetRooms(c echo.Context) error {
	rooms, err := h.Rooms.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRoom, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, PublicRoom{ID: r.ID, Name: r.Name, Capacity: r.Capacity, Price: r.Price})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRoom returns one room by id.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !room.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	return c.JSON(http.StatusOK, PublicRoom{ID: room.ID, Name: room.Name, Capacity: room.Capacity, Price: room.Price})
}

// GetPlans lists all active rate plans.
func (h *PublicHandler) GetPlans(c echo.Context) error {
	plans, err := h.Plans.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicPlan, 0, len(plans))
	for _, p := range plans {
		out = append(out, PublicPlan{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
