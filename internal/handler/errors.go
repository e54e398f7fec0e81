package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
)

const dateLayout = "2006-01-02"

// parseDate parses a calendar date in YYYY-MM-DD form at UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// bookingError translates a booking engine error into the matching
// HTTP response.  Every handler that calls into the engine funnels its
// errors through here so the status mapping stays in one place.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	case errors.Is(err, booking.ErrInvalidGuestInfo):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest name and a valid email are required"})
	case errors.Is(err, booking.ErrCatalogNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room or plan not found"})
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, booking.ErrDateRangeConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the requested dates"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation status does not allow this operation"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
