package handler

import (
	"context"

	"github.com/mmontis/appointment-booking/internal/model"
	"github.com/mmontis/appointment-booking/internal/session"
)

// The handler package defines the store interfaces it consumes so tests can
// substitute in-memory fakes.  The repository and session packages provide
// the production implementations.

// AccountStore is the slice of the account repository the auth handler uses.
type AccountStore interface {
	Create(ctx context.Context, username, email, password string, cost int) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// ReservationStore is the slice of the reservation repository the booking
// handler uses.
type ReservationStore interface {
	ListByAccount(ctx context.Context, accountID uint64) ([]model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	Create(ctx context.Context, accountID uint64, date, timeSlot, details string) (model.Reservation, error)
	Update(ctx context.Context, id uint64, date, timeSlot, details string) error
	Delete(ctx context.Context, id uint64) error
}

// SessionStore covers the session operations handlers perform: rotating on
// login, dropping on logout, and queueing/draining flash messages.
type SessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Bind(ctx context.Context, token string, accountID uint64) (*session.Session, error)
	Delete(ctx context.Context, token string) error
	PushFlash(ctx context.Context, token, msg string) error
	PopFlashes(ctx context.Context, token string) ([]string, error)
}
