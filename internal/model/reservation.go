package model

import "time"

// Reservation statuses.  A reservation starts as PENDING when the guest
// submits the booking form and moves through the state machine below:
//
//	PENDING   -> CONFIRMED (payment succeeded)
//	PENDING   -> FAILED    (payment failed)
//	PENDING   -> CANCELED  (explicit cancellation)
//	CONFIRMED -> CANCELED  (explicit cancellation)
//	CONFIRMED -> COMPLETED (post-stay, administrative)
//
// CANCELED, FAILED and COMPLETED are terminal.  CANCELED and FAILED
// release the reserved dates; every other status blocks them.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCanceled  = "CANCELED"
	StatusFailed    = "FAILED"
	StatusCompleted = "COMPLETED"
)

// BlockingStatuses lists the statuses that occupy a room's dates for the
// purpose of overlap detection.
var BlockingStatuses = []string{StatusPending, StatusConfirmed, StatusCompleted}

// Reservation records a guest's stay in a single room under a pricing
// plan.  CheckIn and CheckOut are calendar dates handled as UTC
// midnight; the interval is half-open, so CheckOut is the departure day
// and does not itself count as an occupied night.  TotalPrice and the
// date range are fixed at creation time; only Status and PaymentRef
// change afterwards.
type Reservation struct {
	ID         uint64    `json:"id"`          // reservations.id
	GuestName  string    `json:"guest_name"`  // reservations.guest_name
	GuestEmail string    `json:"guest_email"` // reservations.guest_email
	RoomID     uint64    `json:"room_id"`     // reservations.room_id
	PlanID     uint64    `json:"plan_id"`     // reservations.plan_id
	CheckIn    time.Time `json:"check_in"`    // reservations.check_in (DATE)
	CheckOut   time.Time `json:"check_out"`   // reservations.check_out (DATE)
	TotalPrice int64     `json:"total_price"` // reservations.total_price
	Status     string    `json:"status"`      // reservations.status
	PaymentRef *string   `json:"payment_ref,omitempty"` // reservations.payment_ref (nullable)
	CreatedAt  time.Time `json:"created_at"`  // reservations.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // reservations.updated_at
}
