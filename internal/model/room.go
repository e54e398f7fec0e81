package model

import "time"

// Room describes a bookable hotel room.  Rooms are reference data
// maintained by administrators: they may be edited or deactivated but
// are never deleted while reservations point at them.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown to guests.
//  Capacity  – maximum number of guests (positive).
//  Price     – nightly base price in the smallest currency unit.
//  IsActive  – whether the room is currently offered for booking.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    `json:"id"`         // rooms.id
	Name      string    `json:"name"`       // rooms.name
	Capacity  int       `json:"capacity"`   // rooms.capacity
	Price     int64     `json:"price"`      // rooms.price
	IsActive  bool      `json:"is_active"`  // rooms.is_active
	CreatedAt time.Time `json:"created_at"` // rooms.created_at
	UpdatedAt time.Time `json:"updated_at"` // rooms.updated_at
}
