package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmontis/appointment-booking/internal/model"
	"github.com/mmontis/appointment-booking/internal/queue"
	"github.com/mmontis/appointment-booking/internal/repository"
	"github.com/mmontis/appointment-booking/internal/view"
)

func bookingForm(date, timeSlot, details string) url.Values {
	return url.Values{"date": {date}, "time": {timeSlot}, "details": {details}}
}

func TestBook_ListsCallerReservations(t *testing.T) {
	e := newTestEcho(t)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)

	var askedAccount uint64
	reservations := &mockReservationStore{
		ListByAccountFunc: func(ctx context.Context, accountID uint64) ([]model.Reservation, error) {
			askedAccount = accountID
			return []model.Reservation{
				{ID: 11, AccountID: accountID, Date: "2024-06-01", Time: "9:00", Details: "checkup"},
			}, nil
		},
	}
	h := NewBookingHandler(reservations, sessions)

	c, rec := newFormContext(t, e, http.MethodGet, "/book", nil, s)
	require.NoError(t, h.Book(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, askedAccount, "listing is scoped to the session account")
	body := rec.Body.String()
	assert.Contains(t, body, "2024-06-01")
	assert.Contains(t, body, "9:00")
	assert.Contains(t, body, "checkup")
	assert.Contains(t, body, "/modify/11")
	assert.Contains(t, body, "/remove/11")
}

func TestCreate_InvalidSlot(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{}
	h := NewBookingHandler(reservations, sessions)

	c, rec := newFormContext(t, e, http.MethodPost, "/book", bookingForm("2024-06-01", "9:15", "x"), s)
	require.NoError(t, h.Create(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, reservations.createCalls, "nothing may be persisted for an unoffered slot")

	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "not offered")
}

func TestCreate_SlotTaken(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{
		CreateFunc: func(ctx context.Context, accountID uint64, date, timeSlot, details string) (model.Reservation, error) {
			return model.Reservation{}, repository.ErrSlotTaken
		},
	}
	h := NewBookingHandler(reservations, sessions)
	published := 0
	h.Publish = func(ctx context.Context, ev queue.ReservationEvent) error {
		published++
		return nil
	}

	c, rec := newFormContext(t, e, http.MethodPost, "/book", bookingForm("2024-06-01", "9:00", "other"), s)
	require.NoError(t, h.Create(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, published, "no event for a rejected booking")

	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "already booked")
}

func TestCreate_Success(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{}
	h := NewBookingHandler(reservations, sessions)

	var gotEvent queue.ReservationEvent
	h.Publish = func(ctx context.Context, ev queue.ReservationEvent) error {
		gotEvent = ev
		return nil
	}

	c, rec := newFormContext(t, e, http.MethodPost, "/book", bookingForm("2024-06-01", "9:00", "checkup"), s)
	require.NoError(t, h.Create(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, reservations.createCalls)
	assert.Equal(t, queue.ActionBooked, gotEvent.Action)
	assert.EqualValues(t, 3, gotEvent.AccountID)
	assert.Equal(t, "2024-06-01", gotEvent.Date)
	assert.Equal(t, "9:00", gotEvent.Time)

	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "booked successfully")
}

func TestCreate_MissingFields(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{}
	h := NewBookingHandler(reservations, sessions)

	c, rec := newFormContext(t, e, http.MethodPost, "/book", bookingForm("2024-06-01", "9:00", ""), s)
	require.NoError(t, h.Create(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, reservations.createCalls)
}

func TestModify_NotFound(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{
		UpdateFunc: func(ctx context.Context, id uint64, date, timeSlot, details string) error {
			return repository.ErrReservationNotFound
		},
	}
	h := NewBookingHandler(reservations, sessions)

	c, rec := newFormContext(t, e, http.MethodPost, "/modify/99", bookingForm("2024-06-02", "10:00", "moved"), s)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Modify(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "not found")
}

func TestModify_Success(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)

	var gotID uint64
	var gotTime string
	reservations := &mockReservationStore{
		UpdateFunc: func(ctx context.Context, id uint64, date, timeSlot, details string) error {
			gotID, gotTime = id, timeSlot
			return nil
		},
	}
	h := NewBookingHandler(reservations, sessions)

	// Modify deliberately skips the slot membership check, so even a time
	// outside the schedule goes through to the store unchanged.
	c, rec := newFormContext(t, e, http.MethodPost, "/modify/11", bookingForm("2024-06-02", "13:00", "moved"), s)
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.Modify(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.EqualValues(t, 11, gotID)
	assert.Equal(t, "13:00", gotTime)

	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "modified successfully")
}

func TestRemove_NotFound(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)
	reservations := &mockReservationStore{} // default GetByID: not found
	h := NewBookingHandler(reservations, sessions)

	c, rec := newFormContext(t, e, http.MethodGet, "/remove/99", nil, s)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.Remove(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "not found")
}

func TestRemove_Success(t *testing.T) {
	e := newTestEcho(t)
	sessions := newFakeSessionStore()
	s := authedSession(t, sessions, 3)

	deleted := uint64(0)
	reservations := &mockReservationStore{
		GetByIDFunc: func(ctx context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{ID: id, AccountID: 3, Date: "2024-06-01", Time: "9:00", Details: "checkup"}, nil
		},
		DeleteFunc: func(ctx context.Context, id uint64) error {
			deleted = id
			return nil
		},
	}
	h := NewBookingHandler(reservations, sessions)

	var gotEvent queue.ReservationEvent
	h.Publish = func(ctx context.Context, ev queue.ReservationEvent) error {
		gotEvent = ev
		return nil
	}

	c, rec := newFormContext(t, e, http.MethodGet, "/remove/11", nil, s)
	c.SetParamNames("id")
	c.SetParamValues("11")
	require.NoError(t, h.Remove(c))

	assert.Equal(t, "/book", rec.Header().Get(echo.HeaderLocation))
	assert.EqualValues(t, 11, deleted)
	assert.Equal(t, queue.ActionCancelled, gotEvent.Action)
	assert.EqualValues(t, 11, gotEvent.ReservationID)

	flashes, _ := sessions.PopFlashes(context.Background(), s.Token)
	require.Len(t, flashes, 1)
	assert.Contains(t, flashes[0], "cancelled successfully")
}
