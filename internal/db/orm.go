package db

import (
	"context"
	"fmt"

	"infinite-experiment/flightboard/internal/config"
	"infinite-experiment/flightboard/internal/logging"
	gormModels "infinite-experiment/flightboard/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuditDB holds the journal database. Writes go through ORM, list queries
// through SQL; both share one connection pool.
type AuditDB struct {
	ORM    *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

// OpenAudit connects the configured driver and migrates the journal table.
// It returns nil, nil when the journal is disabled.
func OpenAudit(cfg config.Audit) (*AuditDB, error) {
	var (
		orm  *gorm.DB
		conn *sqlx.DB
		err  error
	)

	switch cfg.Driver {
	case "none":
		return nil, nil

	case "postgres":
		conn, err = ConnectPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		orm, err = gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), &gorm.Config{})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to open postgres ORM: %w", err)
		}

	case "sqlite":
		orm, err = gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite pool: %w", err)
		}
		// single writer; also keeps ":memory:" databases on one connection
		sqlDB.SetMaxOpenConns(1)
		conn = sqlx.NewDb(sqlDB, "sqlite3")

	default:
		return nil, fmt.Errorf("unknown audit driver %q", cfg.Driver)
	}

	if err := orm.AutoMigrate(&gormModels.MutationAudit{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate audit table: %w", err)
	}

	logging.Info("Audit journal ready", "driver", cfg.Driver)
	return &AuditDB{ORM: orm, SQL: conn, Driver: cfg.Driver}, nil
}

func (d *AuditDB) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *AuditDB) Close() error {
	return d.SQL.Close()
}
