package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservationHandler serves the guest booking flow: probing a room's
// availability, creating a reservation and looking one up afterwards.
// No authentication is required; reservations are identified by id and
// the guest's contact details.
type ReservationHandler struct {
	Engine       *booking.Engine
	Reservations *repository.ReservationRepo
}

type createReservationReq struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	RoomID     uint64 `json:"room_id"`
	PlanID     uint64 `json:"plan_id"`
	CheckIn    string `json:"check_in"`  // YYYY-MM-DD
	CheckOut   string `json:"check_out"` // YYYY-MM-DD
}

type availabilityResp struct {
	RoomID      uint64   `json:"room_id"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Available   bool     `json:"available"`
	ConflictIDs []uint64 `json:"conflict_ids,omitempty"`
	Nights      *int     `json:"nights,omitempty"`
	Total       *int64   `json:"total,omitempty"`
}

// GetAvailability answers whether a room is free for a half-open date
// interval.  With an optional plan_id query parameter the response also
// carries a price quote for the stay.  The answer is advisory: booking
// re-checks atomically, so a room shown as free here can still be taken
// by the time the guest submits.
func (h *ReservationHandler) GetAvailability(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	avail, err := h.Engine.CheckAvailability(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return bookingError(c, err)
	}

	resp := availabilityResp{
		RoomID:      roomID,
		CheckIn:     checkIn.Format(dateLayout),
		CheckOut:    checkOut.Format(dateLayout),
		Available:   avail.Available,
		ConflictIDs: avail.ConflictIDs,
	}

	if planStr := c.QueryParam("plan_id"); planStr != "" {
		planID, err := strconv.ParseUint(planStr, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan_id"})
		}
		quote, err := h.Engine.ComputePrice(ctx, roomID, planID, checkIn, checkOut)
		if err != nil {
			return bookingError(c, err)
		}
		resp.Nights = &quote.Nights
		resp.Total = &quote.Total
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateReservation books a stay.  On success the reservation is
// persisted in status PENDING, awaiting the payment webhook.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	conf, err := h.Engine.CreateReservation(c.Request().Context(), booking.CreateRequest{
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		RoomID:     req.RoomID,
		PlanID:     req.PlanID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          conf.ID,
		"nights":      conf.Nights,
		"total_price": conf.TotalPrice,
		"status":      "PENDING",
	})
}

// reservationView is the public shape of a stored reservation.
type reservationView struct {
	ID         uint64 `json:"id"`
	GuestName  string `json:"guest_name"`
	RoomID     uint64 `json:"room_id"`
	RoomName   string `json:"room_name"`
	PlanID     uint64 `json:"plan_id"`
	PlanName   string `json:"plan_name"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	TotalPrice int64  `json:"total_price"`
	Status     string `json:"status"`
}

// GetReservation returns one reservation with its room and plan names.
// Guest email is withheld since the endpoint is unauthenticated.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Reservations.GetDetail(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView{
		ID:         d.ID,
		GuestName:  d.GuestName,
		RoomID:     d.RoomID,
		RoomName:   d.RoomName,
		PlanID:     d.PlanID,
		PlanName:   d.PlanName,
		CheckIn:    d.CheckIn.Format(dateLayout),
		CheckOut:   d.CheckOut.Format(dateLayout),
		TotalPrice: d.TotalPrice,
		Status:     d.Status,
	})
}
