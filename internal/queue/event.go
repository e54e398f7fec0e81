// Package queue defines the broker message payloads and the background
// consumer that records confirmed reservations to logs/reservation.log.
package queue

// ReservationConfirmedEvent is published when a reservation's payment
// succeeds and it transitions to CONFIRMED.  It carries enough detail
// for downstream consumers (logging, notification, analytics) to act
// without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
	RoomID        uint64 `json:"room_id"`
	RoomName      string `json:"room_name"`
	PlanID        uint64 `json:"plan_id"`
	PlanName      string `json:"plan_name"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	TotalPrice    int64  `json:"total_price"`
	PaymentRef    string `json:"payment_ref,omitempty"`
	ConfirmedAt   string `json:"confirmed_at"`
}
