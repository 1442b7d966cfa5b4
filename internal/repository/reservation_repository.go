package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mmontis/appointment-booking/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  The conflict
// rule (at most one reservation per (date, time) pair across all accounts)
// is enforced at write time inside a transaction, backed by the unique index
// on those columns so a concurrent insert still resolves to ErrSlotTaken.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ListByAccount returns every reservation owned by the account in storage order.
func (r *ReservationRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, account_id, reservation_date, reservation_time, details, created_at, updated_at
	           FROM reservations WHERE account_id = ?`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.AccountID, &res.Date, &res.Time, &res.Details,
			&res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetByID fetches a single reservation.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, account_id, reservation_date, reservation_time, details, created_at, updated_at
	           FROM reservations WHERE id = ? LIMIT 1`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.AccountID, &res.Date, &res.Time,
		&res.Details, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// Create inserts a reservation owned by accountID after verifying the slot is
// free.  Check and insert run in one transaction; a duplicate-key error from
// a racing writer is mapped to ErrSlotTaken as well.
func (r *ReservationRepo) Create(ctx context.Context, accountID uint64, date, timeSlot, details string) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM reservations WHERE reservation_date=? AND reservation_time=? LIMIT 1",
		date, timeSlot).Scan(&one)
	if err == nil {
		return model.Reservation{}, ErrSlotTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, err
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (account_id, reservation_date, reservation_time, details) VALUES (?,?,?,?)",
		accountID, date, timeSlot, details)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Reservation{}, ErrSlotTaken
		}
		return model.Reservation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Reservation{}, err
	}

	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT id, account_id, reservation_date, reservation_time, details, created_at, updated_at
	             FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := tx.QueryRowContext(ctx, sel, id).Scan(&res.ID, &res.AccountID, &res.Date, &res.Time,
		&res.Details, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return model.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	return res, nil
}

// Update overwrites date, time and details of an existing reservation.
// It does not re-run the slot or conflict checks; see the booking handler.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, date, timeSlot, details string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET reservation_date=?, reservation_time=?, details=? WHERE id=?",
		date, timeSlot, details, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSlotTaken
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a no-op update from a missing row.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a reservation by id.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
