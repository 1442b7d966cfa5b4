// Package session implements the server-side session store.  A session is a
// small JSON record in Redis keyed by an opaque token; the token travels in
// an HttpOnly cookie and is the only session state the client ever holds.
// Expiry is delegated to Redis TTLs.  Flash messages are queued per session
// in a Redis list and drained on the next page render.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmontis/appointment-booking/internal/utils"
)

// ErrSessionNotFound is returned when no session exists for a token, either
// because it expired, was logged out, or never existed.
var ErrSessionNotFound = errors.New("session not found")

// Session is the record stored in Redis.  AccountID is zero while the
// visitor is anonymous; login rotates the token and binds the account.
type Session struct {
	Token     string    `json:"token"`
	AccountID uint64    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether the session is bound to an account.
func (s *Session) Authenticated() bool { return s != nil && s.AccountID != 0 }

// Store persists sessions in Redis under "<prefix>:<token>".
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store.  ttl applies to both the session record and any
// pending flash messages.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (st *Store) sessionKey(token string) string { return fmt.Sprintf("%s:%s", st.prefix, token) }
func (st *Store) flashKey(token string) string   { return fmt.Sprintf("%s:flash:%s", st.prefix, token) }

// Create mints a fresh anonymous session and persists it.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
	}
	if err := st.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves the session for a token.  Expired records have already been
// dropped by Redis, so a miss is simply ErrSessionNotFound.
func (st *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := st.client.Get(ctx, st.sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Bind attaches an account to the session identified by token.  The token is
// rotated: the old record is deleted and a new one minted, so a cookie sniffed
// before login cannot ride into the authenticated session.  Pending flashes
// move with it.
func (st *Store) Bind(ctx context.Context, token string, accountID uint64) (*Session, error) {
	if _, err := st.Get(ctx, token); err != nil {
		return nil, err
	}
	fresh, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{
		Token:     fresh,
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
	}
	if err := st.save(ctx, s); err != nil {
		return nil, err
	}
	// Carry queued flashes over to the rotated token, then drop the old record.
	_ = st.client.RenameNX(ctx, st.flashKey(token), st.flashKey(fresh)).Err()
	_ = st.client.Del(ctx, st.sessionKey(token)).Err()
	return s, nil
}

// Delete removes the session and its flash queue.  Deleting a token that no
// longer exists is not an error, which makes logout idempotent.
func (st *Store) Delete(ctx context.Context, token string) error {
	return st.client.Del(ctx, st.sessionKey(token), st.flashKey(token)).Err()
}

// PushFlash appends a user-facing message to the session's flash queue.
func (st *Store) PushFlash(ctx context.Context, token, msg string) error {
	key := st.flashKey(token)
	if err := st.client.RPush(ctx, key, msg).Err(); err != nil {
		return err
	}
	return st.client.Expire(ctx, key, st.ttl).Err()
}

// PopFlashes drains and returns all queued flash messages in push order.
func (st *Store) PopFlashes(ctx context.Context, token string) ([]string, error) {
	key := st.flashKey(token)
	pipe := st.client.TxPipeline()
	lrange := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return lrange.Val(), nil
}

func (st *Store) save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	return st.client.Set(ctx, st.sessionKey(s.Token), data, ttl).Err()
}
