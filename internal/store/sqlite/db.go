package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

type DBConfig struct {
	Path         string
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// Open opens (creating when absent) the SQLite database file and verifies
// the connection. Foreign key enforcement is switched on per connection.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := "file:" + cfg.Path + "?" + url.Values{
		"_pragma": []string{
			"foreign_keys(1)",
			fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()),
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store db: %w", err)
	}

	return db, nil
}
