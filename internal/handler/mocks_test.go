package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	appmw "github.com/mmontis/appointment-booking/internal/middleware"
	"github.com/mmontis/appointment-booking/internal/model"
	"github.com/mmontis/appointment-booking/internal/repository"
	"github.com/mmontis/appointment-booking/internal/session"
)

// mockAccountStore simulates the account repository.  Each func field
// overrides the corresponding method; unset fields fall back to an empty
// store (no accounts exist, creates succeed).
type mockAccountStore struct {
	CreateFunc        func(ctx context.Context, username, email, password string, cost int) (uint64, error)
	GetByUsernameFunc func(ctx context.Context, username string) (model.Account, error)
	ExistsFunc        func(ctx context.Context, username, email string) (bool, error)

	createCalls int
}

func (m *mockAccountStore) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, username, email, password, cost)
	}
	return 1, nil
}

func (m *mockAccountStore) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return model.Account{}, repository.ErrAccountNotFound
}

func (m *mockAccountStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, username, email)
	}
	return false, nil
}

// mockReservationStore simulates the reservation repository.
type mockReservationStore struct {
	ListByAccountFunc func(ctx context.Context, accountID uint64) ([]model.Reservation, error)
	GetByIDFunc       func(ctx context.Context, id uint64) (model.Reservation, error)
	CreateFunc        func(ctx context.Context, accountID uint64, date, timeSlot, details string) (model.Reservation, error)
	UpdateFunc        func(ctx context.Context, id uint64, date, timeSlot, details string) error
	DeleteFunc        func(ctx context.Context, id uint64) error

	createCalls int
}

func (m *mockReservationStore) ListByAccount(ctx context.Context, accountID uint64) ([]model.Reservation, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	return []model.Reservation{}, nil
}

func (m *mockReservationStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (m *mockReservationStore) Create(ctx context.Context, accountID uint64, date, timeSlot, details string) (model.Reservation, error) {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, accountID, date, timeSlot, details)
	}
	return model.Reservation{ID: 1, AccountID: accountID, Date: date, Time: timeSlot, Details: details}, nil
}

func (m *mockReservationStore) Update(ctx context.Context, id uint64, date, timeSlot, details string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, date, timeSlot, details)
	}
	return nil
}

func (m *mockReservationStore) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// fakeSessionStore is an in-memory SessionStore.  Unlike the func-field
// mocks above it carries real state, because the auth flow exercises the
// whole rotate/flash lifecycle.
type fakeSessionStore struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*session.Session
	flashes  map[string][]string

	bindCalls   int
	deleteCalls int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*session.Session{},
		flashes:  map[string][]string{},
	}
}

func (f *fakeSessionStore) Create(ctx context.Context) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s := &session.Session{
		Token:     fmt.Sprintf("tok-%d", f.seq),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	f.sessions[s.Token] = s
	return s, nil
}

func (f *fakeSessionStore) Bind(ctx context.Context, token string, accountID uint64) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bindCalls++
	if _, ok := f.sessions[token]; !ok {
		return nil, session.ErrSessionNotFound
	}
	f.seq++
	s := &session.Session{
		Token:     fmt.Sprintf("tok-%d", f.seq),
		AccountID: accountID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	f.sessions[s.Token] = s
	f.flashes[s.Token] = f.flashes[token]
	delete(f.flashes, token)
	delete(f.sessions, token)
	return s, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	delete(f.sessions, token)
	delete(f.flashes, token)
	return nil
}

func (f *fakeSessionStore) PushFlash(ctx context.Context, token, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes[token] = append(f.flashes[token], msg)
	return nil
}

func (f *fakeSessionStore) PopFlashes(ctx context.Context, token string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.flashes[token]
	delete(f.flashes, token)
	return out, nil
}

// newTestEcho builds an Echo instance with the production validator wired.
func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newFormContext prepares a context for a form post (or plain GET when form
// is nil) with the given session stashed as the middleware would.
func newFormContext(t *testing.T, e *echo.Echo, method, target string, form url.Values, s *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NotNil(t, s)
	appmw.ReplaceSession(c, s)
	return c, rec
}

// authedSession creates a session bound to accountID inside the fake store.
func authedSession(t *testing.T, f *fakeSessionStore, accountID uint64) *session.Session {
	t.Helper()
	anon, err := f.Create(context.Background())
	require.NoError(t, err)
	s, err := f.Bind(context.Background(), anon.Token, accountID)
	require.NoError(t, err)
	f.bindCalls = 0 // only count binds performed by the code under test
	return s
}
