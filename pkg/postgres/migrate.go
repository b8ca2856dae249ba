package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies every pending migration from source (for example
// "file://internal/infrastructure/postgres/migrations") and returns the
// resulting schema version. No pending migrations is not an error.
func RunMigrations(dsn, source string) (uint, error) {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return 0, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: run migrations up: %w", err)
	}
	return schemaVersion(m)
}

// RunMigrationsDown rolls back every applied migration.
func RunMigrationsDown(dsn, source string) error {
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations down: %w", err)
	}
	return nil
}

func schemaVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("postgres: schema version %d is dirty", version)
	}
	return version, nil
}
