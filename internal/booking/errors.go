// Package booking implements the availability and pricing engine behind
// the reservation flow.  It decides whether a requested stay can be
// booked, computes its total price and drives the reservation status
// state machine.  Persistence and catalog lookups are supplied by the
// caller through interfaces, so the package itself stays free of
// database and transport concerns.
package booking

import "errors"

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP responses; anything not listed here is a storage failure
// and should be treated as retryable by the caller.
var (
	// ErrInvalidDateRange is returned when check-in is not strictly
	// before check-out.
	ErrInvalidDateRange = errors.New("check-in must be before check-out")

	// ErrCatalogNotFound is returned when a room or plan id does not
	// resolve to an existing catalog entry.
	ErrCatalogNotFound = errors.New("room or plan not found")

	// ErrInvalidGuestInfo is returned when the guest name is empty or
	// the guest email does not look like local@domain.
	ErrInvalidGuestInfo = errors.New("invalid guest information")

	// ErrDateRangeConflict is returned when the requested interval
	// overlaps an existing non-canceled reservation for the same room.
	// The reservation store raises it as well when a concurrent insert
	// wins the race; callers must treat both origins identically.
	ErrDateRangeConflict = errors.New("dates conflict with an existing reservation")

	// ErrReservationNotFound is returned by status transitions when the
	// reservation id does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrInvalidTransition is returned when a status transition is
	// requested from a state that does not permit it, e.g. marking a
	// canceled reservation as paid.  Repeating an already-applied
	// transition is a no-op, not an error.
	ErrInvalidTransition = errors.New("invalid status transition")
)
