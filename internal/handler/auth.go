package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmontis/appointment-booking/internal/config"
	appmw "github.com/mmontis/appointment-booking/internal/middleware"
	"github.com/mmontis/appointment-booking/internal/repository"
	"github.com/mmontis/appointment-booking/internal/utils"
)

// AuthHandler bundles dependencies for the register/login/logout pages.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, accounts AccountStore, sessions SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Sessions: sessions}
}

// ----- form DTOs -----

type registerReq struct {
	Username        string `form:"username" validate:"required,max=20"`
	Email           string `form:"email" validate:"required,email,max=40"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required"`
}

type loginReq struct {
	Username string `form:"username" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm renders the registration page.  Logged-in visitors are sent
// straight to their reservations.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	if appmw.CurrentSession(c).Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/book")
	}
	return renderPage(c, h.Sessions, "register.html", echo.Map{"Title": "Register"})
}

// Register creates a new account.  Duplicate username/email and mismatched
// passwords recover as a flash plus a redirect back to the form.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return flashAndRedirect(c, h.Sessions, "Invalid form submission.", "/register")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := c.Validate(&req); err != nil {
		return flashAndRedirect(c, h.Sessions, "All fields are required; the email must be valid.", "/register")
	}
	if req.Password != req.ConfirmPassword {
		return flashAndRedirect(c, h.Sessions, "Passwords do not match.", "/register")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Accounts.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		c.Logger().Errorf("register: existence check failed: %v", err)
		return flashAndRedirect(c, h.Sessions, "Something went wrong. Please try again.", "/register")
	}
	if taken {
		return flashAndRedirect(c, h.Sessions, "Username or email already taken.", "/register")
	}

	if _, err := h.Accounts.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		// The unique index can still fire when two registrations race the pre-check.
		if errors.Is(err, repository.ErrAccountExists) {
			return flashAndRedirect(c, h.Sessions, "Username or email already taken.", "/register")
		}
		c.Logger().Errorf("register: create account failed: %v", err)
		return flashAndRedirect(c, h.Sessions, "Something went wrong. Please try again.", "/register")
	}
	return flashAndRedirect(c, h.Sessions, "Registration complete. Please log in.", "/login")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if appmw.CurrentSession(c).Authenticated() {
		return c.Redirect(http.StatusSeeOther, "/book")
	}
	return renderPage(c, h.Sessions, "login.html", echo.Map{"Title": "Log in"})
}

// Login verifies the credentials and binds the account to the session.  The
// session token is rotated on success; the failure message never says whether
// the username or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return flashAndRedirect(c, h.Sessions, "Invalid form submission.", "/login")
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return flashAndRedirect(c, h.Sessions, "Username and password are required.", "/login")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrAccountNotFound) {
		c.Logger().Errorf("login: lookup failed: %v", err)
		return flashAndRedirect(c, h.Sessions, "Something went wrong. Please try again.", "/login")
	}
	// VerifyPasswordTimed burns a bcrypt comparison even when the account is
	// missing, so both failure paths take about the same time.
	if !utils.VerifyPasswordTimed(acct.PasswordHash, req.Password) {
		return flashAndRedirect(c, h.Sessions, "Invalid username or password.", "/login")
	}

	cur := appmw.CurrentSession(c)
	if cur == nil {
		return flashAndRedirect(c, h.Sessions, "Something went wrong. Please try again.", "/login")
	}
	s, err := h.Sessions.Bind(ctx, cur.Token, acct.ID)
	if err != nil {
		c.Logger().Errorf("login: session bind failed: %v", err)
		return flashAndRedirect(c, h.Sessions, "Something went wrong. Please try again.", "/login")
	}
	appmw.WriteSessionCookie(c, s.Token, time.Duration(h.Cfg.SessionTTLHours)*time.Hour)
	appmw.ReplaceSession(c, s)
	return flashAndRedirect(c, h.Sessions, "Logged in successfully.", "/book")
}

// Logout drops the server-side session record and issues a fresh anonymous
// one so the goodbye flash has somewhere to live.  Deleting an already-dead
// session is a no-op, which keeps the operation idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if cur := appmw.CurrentSession(c); cur != nil {
		_ = h.Sessions.Delete(ctx, cur.Token)
	}
	s, err := h.Sessions.Create(ctx)
	if err != nil {
		appmw.ClearSessionCookie(c)
		return c.Redirect(http.StatusSeeOther, "/home")
	}
	appmw.WriteSessionCookie(c, s.Token, time.Duration(h.Cfg.SessionTTLHours)*time.Hour)
	appmw.ReplaceSession(c, s)
	return flashAndRedirect(c, h.Sessions, "Logged out successfully.", "/home")
}
