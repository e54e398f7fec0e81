package booking

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// MemoryCatalog is a map-backed Catalog used by tests and local
// development.  It is safe for concurrent reads once populated.
type MemoryCatalog struct {
	Rooms map[uint64]*model.Room
	Plans map[uint64]*model.Plan
}

// NewMemoryCatalog builds a MemoryCatalog from the given entries.
func NewMemoryCatalog(rooms []*model.Room, plans []*model.Plan) *MemoryCatalog {
	c := &MemoryCatalog{
		Rooms: make(map[uint64]*model.Room, len(rooms)),
		Plans: make(map[uint64]*model.Plan, len(plans)),
	}
	for _, r := range rooms {
		c.Rooms[r.ID] = r
	}
	for _, p := range plans {
		c.Plans[p.ID] = p
	}
	return c
}

// GetRoom implements Catalog.
func (c *MemoryCatalog) GetRoom(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := c.Rooms[id]
	if !ok {
		return nil, ErrCatalogNotFound
	}
	return r, nil
}

// GetPlan implements Catalog.
func (c *MemoryCatalog) GetPlan(_ context.Context, id uint64) (*model.Plan, error) {
	p, ok := c.Plans[id]
	if !ok {
		return nil, ErrCatalogNotFound
	}
	return p, nil
}

// MemoryStore is a mutex-guarded ReservationStore used by tests and
// local development.  Insert holds the lock across the overlap check
// and the write, giving the same atomicity the SQL store provides with
// a transaction, so the no-double-booking invariant holds under
// concurrent callers.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Reservation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[uint64]*model.Reservation)}
}

func blocks(status string) bool {
	for _, s := range model.BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func overlaps(r *model.Reservation, roomID uint64, checkIn, checkOut time.Time) bool {
	return r.RoomID == roomID && blocks(r.Status) &&
		r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn)
}

// FindOverlapping implements ReservationStore.
func (s *MemoryStore) FindOverlapping(_ context.Context, roomID uint64, checkIn, checkOut time.Time) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint64
	for _, r := range s.rows {
		if overlaps(r, roomID, checkIn, checkOut) {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// Insert implements ReservationStore.  The overlap re-check and the
// write happen under one lock acquisition.
func (s *MemoryStore) Insert(_ context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if overlaps(r, res.RoomID, res.CheckIn, res.CheckOut) {
			return ErrDateRangeConflict
		}
	}
	now := time.Now().UTC()
	res.ID = s.nextID
	s.nextID++
	res.CreatedAt = now
	res.UpdatedAt = now
	cp := *res
	s.rows[res.ID] = &cp
	return nil
}

// GetByID implements ReservationStore.
func (s *MemoryStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

// UpdateStatus implements ReservationStore.
func (s *MemoryStore) UpdateStatus(_ context.Context, id uint64, from []string, to string, paymentRef *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if r.Status == f {
			r.Status = to
			if paymentRef != nil {
				r.PaymentRef = paymentRef
			}
			r.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}
