package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListReservations returns all reservations with room and plan names,
// newest first.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	details, err := h.Reservations.ListDetails(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// CancelReservation releases a reservation's dates.  Allowed from
// PENDING and CONFIRMED; canceling an already canceled reservation is a
// no-op.
func (h *AdminHandler) CancelReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.Cancel(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "CANCELED"})
}

// CompleteReservation closes out a stay after checkout.  Allowed only
// from CONFIRMED; completing twice is a no-op.
func (h *AdminHandler) CompleteReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.Complete(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "COMPLETED"})
}
