package middleware // reusable HTTP middleware for the session-cookie auth flow

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmontis/appointment-booking/internal/session"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// sessionContextKey is where EnsureSession stashes the loaded session record.
const sessionContextKey = "session"

// EnsureSession guarantees that every request carries a live session record.
// It reads the session cookie, loads the record from the store, and creates a
// fresh anonymous session (setting a new cookie) when the cookie is absent or
// its record has expired.  The record is stashed in the request context for
// handlers and the RequireAccount guard.
func EnsureSession(store *session.Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if s, err := store.Get(ctx, cookie.Value); err == nil {
					c.Set(sessionContextKey, s)
					return next(c)
				}
				// Stale cookie: fall through and mint a new session below.
			}
			s, err := store.Create(ctx)
			if err != nil {
				return c.String(http.StatusInternalServerError, "session store unavailable")
			}
			WriteSessionCookie(c, s.Token, ttl)
			c.Set(sessionContextKey, s)
			return next(c)
		}
	}
}

// RequireAccount gates protected routes.  Anonymous visitors get a flash and
// a redirect to the login form, mirroring the login_required behavior of the
// public pages.  Must run after EnsureSession.
func RequireAccount(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := CurrentSession(c)
			if !s.Authenticated() {
				if s != nil {
					_ = store.PushFlash(c.Request().Context(), s.Token, "Please log in to access this page.")
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session loaded by EnsureSession, or nil when the
// middleware did not run.
func CurrentSession(c echo.Context) *session.Session {
	if v := c.Get(sessionContextKey); v != nil {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// ReplaceSession swaps the session stashed in the context.  The auth handler
// uses this after rotating the token on login/logout so later renders in the
// same request see the fresh record.
func ReplaceSession(c echo.Context, s *session.Session) {
	c.Set(sessionContextKey, s)
}

// WriteSessionCookie sets the session cookie.  HttpOnly keeps the token away
// from scripts; SameSite=Lax still allows the top-level form redirects this
// app is built on.
func WriteSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
