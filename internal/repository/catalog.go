package repository

import (
	"context"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Catalog adapts the room and plan repositories to the booking
// engine's Catalog interface, mapping the repository's not-found
// sentinels to the engine's single ErrCatalogNotFound.
type Catalog struct {
	Rooms *RoomRepo
	Plans *PlanRepo
}

// NewCatalog constructs a Catalog over the given repositories.
func NewCatalog(rooms *RoomRepo, plans *PlanRepo) *Catalog {
	return &Catalog{Rooms: rooms, Plans: plans}
}

// GetRoom implements booking.Catalog.
func (c *Catalog) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	room, err := c.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, booking.ErrCatalogNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetPlan implements booking.Catalog.
func (c *Catalog) GetPlan(ctx context.Context, id uint64) (*model.Plan, error) {
	plan, err := c.Plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, booking.ErrCatalogNotFound
		}
		return nil, err
	}
	return plan, nil
}
