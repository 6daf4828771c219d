package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"ajali/config"
	"ajali/core/utils"
)

const connectTimeout = 30 * time.Second

// NewDB opens the configured database and verifies connectivity with a
// bounded exponential retry. Business-level errors are never retried; this
// only covers the connect window (e.g. postgres still starting up).
func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*sql.DB, error) {
	driver := "sqlite"
	if cfg != nil && cfg.DBDriver == "postgres" {
		driver = "pgx"
	}
	dsn := ""
	if cfg != nil {
		dsn = cfg.DBURL
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// modernc/sqlite: a single connection avoids SQLITE_BUSY under
		// concurrent writers and keeps the pragmas session-wide.
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	backoff := retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := db.PingContext(ctx); pingErr != nil {
			logger.Printf("DB ping failed, retrying: %v", pingErr)
			return retry.RetryableError(pingErr)
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == "sqlite" {
		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA journal_mode = WAL",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}
	return db, nil
}
