// Package sql opens the database connection, applies embedded migrations
// and hands out the repository store. PostgreSQL is the production backend;
// SQLite serves development setups and tests.
package sql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rezkam/cardfile/internal/storage/sql/repository"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// DBConfig holds database connection configuration.
type DBConfig struct {
	Driver          string        // "postgres" or "sqlite"
	DSN             string        // connection string or SQLite path
	MaxOpenConns    int           // maximum open connections (default: 25)
	MaxIdleConns    int           // maximum idle connections (default: 5)
	ConnMaxLifetime time.Duration // connection max lifetime (default: 5min)
	ConnMaxIdleTime time.Duration // connection max idle time (default: 1min)
	AutoMigrate     bool          // apply embedded migrations on startup
}

// NewStore opens the database with the given configuration and returns the
// repository store.
func NewStore(ctx context.Context, cfg DBConfig) (*repository.Store, error) {
	driver, dialect, err := driverInfo(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 25
	}
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 1 * time.Minute
	}

	// SQLite handles a single writer; more connections just contend.
	if cfg.Driver == "sqlite" {
		maxOpenConns = 1
		maxIdleConns = 1
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := runMigrations(db, dialect, "migrations/"+cfg.Driver); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return repository.NewStore(db, cfg.Driver), nil
}

func driverInfo(driver string) (sqlDriver, gooseDialect string, err error) {
	switch driver {
	case "postgres":
		return "pgx", "postgres", nil
	case "sqlite":
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("unknown database driver: %s", driver)
	}
}

// runMigrations applies the embedded migrations for the given dialect.
func runMigrations(db *sql.DB, dialect, dir string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
