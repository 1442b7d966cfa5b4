package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mmontis/appointment-booking/internal/config"
	"github.com/mmontis/appointment-booking/internal/database"
	"github.com/mmontis/appointment-booking/internal/handler"
	appmw "github.com/mmontis/appointment-booking/internal/middleware"
	"github.com/mmontis/appointment-booking/internal/queue"
	"github.com/mmontis/appointment-booking/internal/repository"
	"github.com/mmontis/appointment-booking/internal/router"
	queue_publisher "github.com/mmontis/appointment-booking/internal/service"
	"github.com/mmontis/appointment-booking/internal/session"
	"github.com/mmontis/appointment-booking/internal/view"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// Redis is mandatory: it holds every session, so without it nobody can
	// log in.  The rate limiter shares the same client.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unavailable; the session store cannot start")
	}
	sessions := session.NewStore(rdb, "session", sessionTTL)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	accounts := repository.NewAccountRepo(db)
	reservations := repository.NewReservationRepo(db)

	bookings := handler.NewBookingHandler(reservations, sessions)
	bookings.Publish = queue_publisher.PublishReservationEvent

	router.RegisterRoutes(e, router.Deps{
		Pages:      handler.NewPageHandler(sessions),
		Auth:       handler.NewAuthHandler(cfg, accounts, sessions),
		Bookings:   bookings,
		Sessions:   sessions,
		SessionTTL: sessionTTL,
		Limiter:    appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	// Background consumer that appends reservation events to the log file.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
