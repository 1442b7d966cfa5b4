package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appmw "github.com/mmontis/appointment-booking/internal/middleware"
)

// renderPage executes a template with the data every page shares: queued
// flash messages (drained here, so each shows exactly once) and the login
// state for the navigation bar.
func renderPage(c echo.Context, sessions SessionStore, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = name
	}
	s := appmw.CurrentSession(c)
	data["LoggedIn"] = s.Authenticated()
	if s != nil {
		if flashes, err := sessions.PopFlashes(c.Request().Context(), s.Token); err == nil {
			data["Flashes"] = flashes
		}
	}
	return c.Render(http.StatusOK, name, data)
}

// flashAndRedirect queues a message on the current session and redirects,
// the recovery path every failed form post funnels through.
func flashAndRedirect(c echo.Context, sessions SessionStore, msg, location string) error {
	if s := appmw.CurrentSession(c); s != nil {
		_ = sessions.PushFlash(c.Request().Context(), s.Token, msg)
	}
	return c.Redirect(http.StatusSeeOther, location)
}
