package router // package router defines how HTTP routes are registered

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmontis/appointment-booking/internal/handler"
	appmw "github.com/mmontis/appointment-booking/internal/middleware"
	"github.com/mmontis/appointment-booking/internal/session"
)

// Deps bundles everything route registration needs: the page handlers, the
// session store backing the cookie middleware, and the rate limiter for the
// credential form posts.
type Deps struct {
	Pages      *handler.PageHandler
	Auth       *handler.AuthHandler
	Bookings   *handler.BookingHandler
	Sessions   *session.Store
	SessionTTL time.Duration
	Limiter    echo.MiddlewareFunc
}

// RegisterRoutes wires the whole HTTP surface.  The health check stays
// outside the session middleware so probes do not mint session records;
// every page route runs through EnsureSession, and the booking routes
// additionally pass the RequireAccount guard.
func RegisterRoutes(e *echo.Echo, d Deps) {
	// Liveness for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Every visitor gets a server-side session; flash messages live there.
	site := e.Group("", appmw.EnsureSession(d.Sessions, d.SessionTTL))

	// Public pages.
	site.GET("/", d.Pages.Home)
	site.GET("/home", d.Pages.Home)
	site.GET("/about", d.Pages.About)
	site.GET("/contact", d.Pages.Contact)

	// Credential pages; the posts are rate limited to slow brute forcing.
	site.GET("/login", d.Auth.LoginForm)
	site.POST("/login", d.Auth.Login, d.Limiter)
	site.GET("/register", d.Auth.RegisterForm)
	site.POST("/register", d.Auth.Register, d.Limiter)

	// Everything below requires a session bound to an account; anonymous
	// visitors are redirected to the login form.
	auth := site.Group("", appmw.RequireAccount(d.Sessions))
	auth.GET("/logout", d.Auth.Logout)
	auth.GET("/book", d.Bookings.Book)
	auth.POST("/book", d.Bookings.Create)
	auth.GET("/modify/:id", d.Bookings.ModifyForm)
	auth.POST("/modify/:id", d.Bookings.Modify)
	auth.GET("/remove/:id", d.Bookings.Remove)
}
