package store

import (
	"context"
	"fmt"

	"card-shoggoths-server/pkg/db"
)

// DriverMemory keeps sessions in memory
const DriverMemory = "memory"

// Open returns the store for the driver
// Postgres migrations are run from migrationsPath when it is not empty.
func Open(ctx context.Context, driver, dsn, migrationsPath string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	database, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == db.DriverPostgres && migrationsPath != "" {
		if err := db.Migrate(database, migrationsPath); err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	return NewSQL(database, driver), nil
}
