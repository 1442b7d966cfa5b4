package handler

import (
	"github.com/labstack/echo/v4"
)

// PageHandler serves the public informational pages.
type PageHandler struct {
	Sessions SessionStore
}

func NewPageHandler(sessions SessionStore) *PageHandler {
	return &PageHandler{Sessions: sessions}
}

func (h *PageHandler) Home(c echo.Context) error {
	return renderPage(c, h.Sessions, "index.html", echo.Map{"Title": "Home"})
}

func (h *PageHandler) About(c echo.Context) error {
	return renderPage(c, h.Sessions, "about.html", echo.Map{"Title": "About"})
}

func (h *PageHandler) Contact(c echo.Context) error {
	return renderPage(c, h.Sessions, "contact.html", echo.Map{"Title": "Contact"})
}
