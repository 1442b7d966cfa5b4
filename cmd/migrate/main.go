package main // migration runner: `migrate up` applies, `migrate down` rolls back

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mmontis/appointment-booking/internal/config"
	"github.com/mmontis/appointment-booking/internal/database"
)

func main() {
	_ = godotenv.Load()

	action := "up"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	cfg := config.Load()
	if err := database.Migrate(cfg.DSN(), "migrations", action); err != nil {
		log.Fatalf("migrate %s: %v", action, err)
	}
	log.Printf("migrations %s complete", action)
}
