package main

import (
	"context"
	"database/sql"
	"time"

	"card-shoggoths-server/internal/config"
	"card-shoggoths-server/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Instance()
	if cfg.Store.Driver != db.DriverPostgres {
		logrus.WithField("driver", cfg.Store.Driver).Info("nothing to migrate")
		return
	}

	dbh := waitForDB(cfg.Store.DSN)
	defer dbh.Close()

	if err := db.Migrate(dbh, cfg.Store.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB(dsn string) *sql.DB {
	timeout := time.NewTimer(time.Second * 10)
	defer timeout.Stop()

	for {
		dbh, err := db.Open(context.Background(), db.DriverPostgres, dsn)
		if err == nil {
			return dbh
		}

		select {
		case <-timeout.C:
			logrus.WithError(err).Fatal("could not connect to database")
		case <-time.After(time.Millisecond * 500):
		}
	}
}
