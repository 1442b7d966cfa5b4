package model

import "time"

// Reservation records a booked appointment slot.  Date and time are kept as
// the strings the booking form submits: the date in YYYY-MM-DD form and the
// time as one of the fixed half-hour markers (see the booking package).
// Ownership is fixed at creation; AccountID never changes afterwards.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – account that made the reservation.
//  Date      – reservation date (YYYY-MM-DD).
//  Time      – reservation time, a member of the fixed slot set.
//  Details   – free-text purpose of the appointment.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	AccountID uint64    // reservations.account_id
	Date      string    // reservations.reservation_date
	Time      string    // reservations.reservation_time
	Details   string    // reservations.details
	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}
