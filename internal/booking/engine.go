package booking

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Catalog resolves room and plan reference data.  Implementations
// return ErrCatalogNotFound when an id does not exist.
type Catalog interface {
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	GetPlan(ctx context.Context, id uint64) (*model.Plan, error)
}

// ReservationStore persists reservations.  Insert must perform the
// overlap check and the write atomically: when two concurrent inserts
// target the same room and overlapping dates, exactly one may succeed
// and the other must fail with ErrDateRangeConflict.  The engine's own
// FindOverlapping call is only an optimistic fast path; the store is
// the final arbiter.
type ReservationStore interface {
	// FindOverlapping returns the ids of non-canceled reservations for
	// the room whose [check_in, check_out) interval overlaps the given
	// half-open interval.  Read-only.
	FindOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) ([]uint64, error)

	// Insert atomically re-checks for overlap and persists the
	// reservation, populating its ID and timestamps.
	Insert(ctx context.Context, res *model.Reservation) error

	// GetByID returns a reservation or ErrReservationNotFound.
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)

	// UpdateStatus transitions the reservation to the target status if
	// its current status is one of from.  It reports whether a row was
	// changed.  A non-nil paymentRef is stored alongside the new status.
	UpdateStatus(ctx context.Context, id uint64, from []string, to string, paymentRef *string) (bool, error)
}

// Notifier is told about reservations that reach CONFIRMED.  Delivery
// is best effort; implementations log and swallow their own failures.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, res *model.Reservation)
}

// Availability is the result of an availability probe.  ConflictIDs is
// diagnostic only and lists the reservations blocking the interval.
type Availability struct {
	Available   bool     `json:"available"`
	ConflictIDs []uint64 `json:"conflict_ids,omitempty"`
}

// Quote is the price of a prospective stay.
type Quote struct {
	Nights int   `json:"nights"`
	Total  int64 `json:"total"`
}

// CreateRequest carries the guest's booking form.
type CreateRequest struct {
	GuestName  string
	GuestEmail string
	RoomID     uint64
	PlanID     uint64
	CheckIn    time.Time
	CheckOut   time.Time
}

// Confirmation is returned after a reservation is persisted.  The
// reservation awaits payment in status PENDING.
type Confirmation struct {
	ID         uint64 `json:"id"`
	Nights     int    `json:"nights"`
	TotalPrice int64  `json:"total_price"`
}

// Engine composes catalog lookups and the reservation store into the
// booking operations exposed to the web layer.  It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	catalog  Catalog
	store    ReservationStore
	notifier Notifier // optional, may be nil
}

// NewEngine constructs an Engine.  Catalog and store must be non-nil;
// notifier may be nil to disable confirmation events.
func NewEngine(catalog Catalog, store ReservationStore, notifier Notifier) *Engine {
	if catalog == nil || store == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{catalog: catalog, store: store, notifier: notifier}
}

// Nights returns the billable night count for a stay: the day
// difference between check-out and check-in rounded to the nearest
// whole day and floored at one.  The floor is deliberate policy so a
// same-day stay, if ever permitted upstream, is charged one night
// rather than zero.
func Nights(checkIn, checkOut time.Time) int {
	n := int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}

// DateOnly truncates a timestamp to its calendar date at UTC midnight.
// All engine operations normalize inputs through it so that the time
// of day a request arrives with cannot affect overlap or pricing.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckAvailability reports whether the room is free for the half-open
// interval [checkIn, checkOut).  An existing reservation conflicts when
// its check-in is before checkOut and its check-out is after checkIn;
// intervals that merely touch at a boundary do not conflict.  The call
// is read-only and its answer may be stale by the time a booking is
// attempted; CreateReservation re-checks transactionally.
func (e *Engine) CheckAvailability(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (Availability, error) {
	checkIn, checkOut = DateOnly(checkIn), DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return Availability{}, ErrInvalidDateRange
	}
	if _, err := e.catalog.GetRoom(ctx, roomID); err != nil {
		return Availability{}, err
	}
	ids, err := e.store.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return Availability{}, fmt.Errorf("find overlapping: %w", err)
	}
	return Availability{Available: len(ids) == 0, ConflictIDs: ids}, nil
}

// ComputePrice returns the total price of a stay: the sum of the room's
// nightly price and the plan's nightly surcharge, multiplied by the
// night count.  Prices are integers in the smallest currency unit, so
// the result is exact.
func (e *Engine) ComputePrice(ctx context.Context, roomID, planID uint64, checkIn, checkOut time.Time) (Quote, error) {
	checkIn, checkOut = DateOnly(checkIn), DateOnly(checkOut)
	if !checkIn.Before(checkOut) {
		return Quote{}, ErrInvalidDateRange
	}
	room, err := e.catalog.GetRoom(ctx, roomID)
	if err != nil {
		return Quote{}, err
	}
	plan, err := e.catalog.GetPlan(ctx, planID)
	if err != nil {
		return Quote{}, err
	}
	nights := Nights(checkIn, checkOut)
	return Quote{Nights: nights, Total: (room.Price + plan.Price) * int64(nights)}, nil
}

// CreateReservation validates the request, prices the stay and persists
// a PENDING reservation.  Guest fields are validated before anything
// touches the store, so a malformed request performs no write.  The
// optimistic overlap probe rejects obvious conflicts early; the store's
// Insert repeats the check atomically and is authoritative, so two
// concurrent requests for overlapping dates cannot both succeed.
func (e *Engine) CreateReservation(ctx context.Context, req CreateRequest) (Confirmation, error) {
	if err := validateGuest(req.GuestName, req.GuestEmail); err != nil {
		return Confirmation{}, err
	}
	checkIn, checkOut := DateOnly(req.CheckIn), DateOnly(req.CheckOut)
	if !checkIn.Before(checkOut) {
		return Confirmation{}, ErrInvalidDateRange
	}
	room, err := e.catalog.GetRoom(ctx, req.RoomID)
	if err != nil {
		return Confirmation{}, err
	}
	plan, err := e.catalog.GetPlan(ctx, req.PlanID)
	if err != nil {
		return Confirmation{}, err
	}
	conflicts, err := e.store.FindOverlapping(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		return Confirmation{}, fmt.Errorf("find overlapping: %w", err)
	}
	if len(conflicts) > 0 {
		return Confirmation{}, ErrDateRangeConflict
	}

	nights := Nights(checkIn, checkOut)
	res := &model.Reservation{
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		RoomID:     room.ID,
		PlanID:     plan.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: (room.Price + plan.Price) * int64(nights),
		Status:     model.StatusPending,
	}
	if err := e.store.Insert(ctx, res); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{ID: res.ID, Nights: nights, TotalPrice: res.TotalPrice}, nil
}

// MarkPaid records a successful payment: PENDING -> CONFIRMED.  Calling
// it again for an already confirmed reservation is a no-op.  On the
// first successful transition the notifier, if any, is told about the
// confirmation.
func (e *Engine) MarkPaid(ctx context.Context, id uint64, paymentRef string) error {
	var ref *string
	if paymentRef != "" {
		ref = &paymentRef
	}
	changed, err := e.store.UpdateStatus(ctx, id, []string{model.StatusPending}, model.StatusConfirmed, ref)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !changed {
		return e.requireStatus(ctx, id, model.StatusConfirmed)
	}
	if e.notifier != nil {
		if res, err := e.store.GetByID(ctx, id); err == nil {
			e.notifier.ReservationConfirmed(ctx, res)
		}
	}
	return nil
}

// MarkFailed records a failed payment: PENDING -> FAILED.  Idempotent
// for reservations already in FAILED.
func (e *Engine) MarkFailed(ctx context.Context, id uint64) error {
	changed, err := e.store.UpdateStatus(ctx, id, []string{model.StatusPending}, model.StatusFailed, nil)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !changed {
		return e.requireStatus(ctx, id, model.StatusFailed)
	}
	return nil
}

// Cancel releases a reservation's dates: PENDING or CONFIRMED ->
// CANCELED.  Idempotent for reservations already canceled.
func (e *Engine) Cancel(ctx context.Context, id uint64) error {
	changed, err := e.store.UpdateStatus(ctx, id, []string{model.StatusPending, model.StatusConfirmed}, model.StatusCanceled, nil)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !changed {
		return e.requireStatus(ctx, id, model.StatusCanceled)
	}
	return nil
}

// Complete closes out a stay: CONFIRMED -> COMPLETED.  Idempotent for
// reservations already completed.
func (e *Engine) Complete(ctx context.Context, id uint64) error {
	changed, err := e.store.UpdateStatus(ctx, id, []string{model.StatusConfirmed}, model.StatusCompleted, nil)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !changed {
		return e.requireStatus(ctx, id, model.StatusCompleted)
	}
	return nil
}

// requireStatus resolves the outcome of a conditional update that
// changed no rows: the reservation either does not exist, already sits
// in the desired state (no-op) or is in a state that forbids the
// transition.
func (e *Engine) requireStatus(ctx context.Context, id uint64, want string) error {
	res, err := e.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == want {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, want)
}

// validateGuest enforces the minimal guest contact contract: a
// non-empty name and an email shaped like local@domain with a dotted
// domain.  Anything stricter belongs to the mail delivery layer.
func validateGuest(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidGuestInfo
	}
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return ErrInvalidGuestInfo
	}
	domain := email[at+1:]
	if domain == "" || !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrInvalidGuestInfo
	}
	return nil
}
