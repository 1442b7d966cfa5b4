// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by a ReservationEvent.
const (
	ActionBooked    = "BOOKED"
	ActionCancelled = "CANCELLED"
)

// ReservationEvent is published when a reservation is booked or cancelled.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID uint64 `json:"reservation_id"`
	AccountID     uint64 `json:"account_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Details       string `json:"details"`
	OccurredAt    string `json:"occurred_at"`
}
