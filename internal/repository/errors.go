// Package repository holds the MySQL data access layer.  Sentinel
// errors defined here let handlers distinguish failure scenarios
// without inspecting driver errors.  Reservation-specific errors
// (conflict, not found) are deliberately NOT redefined here: the
// reservation repository implements the booking package's store
// interface and returns that package's sentinels so the engine and its
// callers share one error vocabulary.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// ErrPlanNotFound is returned when a plan lookup fails.
var ErrPlanNotFound = errors.New("plan not found")

// ErrEmailExists is returned when creating a user with an email that
// is already registered.
var ErrEmailExists = errors.New("email already exists")
