package model

import "time"

// Plan is a pricing add-on layered onto a room's nightly rate, such as
// breakfast or half board.  Like rooms, plans are administrator-managed
// reference data and are never deleted while reservations reference them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name shown to guests.
//  Description – optional marketing text.
//  Price       – nightly surcharge in the smallest currency unit
//                (zero for a room-only plan).
type Plan struct {
	ID          uint64    `json:"id"`          // plans.id
	Name        string    `json:"name"`        // plans.name
	Description string    `json:"description"` // plans.description (may be empty)
	Price       int64     `json:"price"`       // plans.price
	IsActive    bool      `json:"is_active"`   // plans.is_active
	CreatedAt   time.Time `json:"created_at"`  // plans.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // plans.updated_at
}
