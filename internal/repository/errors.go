// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios and translate them
// into user-facing flash messages: a duplicate account, a slot that is
// already booked, or a reservation id that does not exist.
package repository

import "errors"

// ErrAccountExists is returned when an insert collides with the unique
// username or email index.  Handlers surface this as a "username or email
// already taken" message on the registration form.
var ErrAccountExists = errors.New("username or email already exists")

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrSlotTaken is returned when a reservation for the same date and time
// already exists, either detected by the pre-insert check or by the unique
// (date, time) index when two requests race.
var ErrSlotTaken = errors.New("slot already booked")

// ErrReservationNotFound is returned when no reservation matches the id.
var ErrReservationNotFound = errors.New("reservation not found")
