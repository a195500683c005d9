package george

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklahomer/go-kasumi/logger"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// OpenDB connects to the SQLite database at path and returns the pool handed to command handlers.
// The schema belongs to the handlers; OpenDB only checks that the database is reachable.
func OpenDB(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		CloseDB(db)
		return nil, fmt.Errorf("failed to configure database %s: %w", path, err)
	}

	logger.Infof("Database connected: %s", path)
	return db, nil
}

// CloseDB closes the pool, logging any error.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Errorf("Failed to close database: %+v", err)
	}
}
