package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies the SQL migrations under the given source directory.
// Action is "up" or "down".  ErrNoChange is not treated as a failure so the
// runner can be invoked repeatedly.
func Migrate(dsn, sourceDir, action string) error {
	m, err := migrate.New("file://"+sourceDir, "mysql://"+dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration action %q (want up or down)", action)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations %s: %w", action, err)
	}
	return nil
}
