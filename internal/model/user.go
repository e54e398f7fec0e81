package model

import "time"

// RoleAdmin is the only dashboard role.  Guests book without an account;
// accounts exist solely for hotel staff.
const RoleAdmin = "ADMIN"

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
