package db

import (
	"fmt"
	"time"

	"infinite-experiment/flightboard/internal/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectPostgres opens a lib/pq pool, retrying while the database starts up.
func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		logging.Warn("Postgres not ready, retrying", "attempt", i+1, "error", err.Error())
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres: %w", err)
}
