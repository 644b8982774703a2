// Package db manages the embedded SQLite store shared by every module.
package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open creates the database file (and its directory) if needed and returns a
// connection configured for single-user local access: WAL journal, enforced
// foreign keys, and a busy timeout that absorbs transient lock errors.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("platform/db: create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?%s", url.PathEscape(path), url.Values{
		"_pragma": []string{
			"busy_timeout(5000)",
			"journal_mode(WAL)",
			"foreign_keys(ON)",
		},
	}.Encode())

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("platform/db: open: %w", err)
	}

	// One writer thread, one connection for the process lifetime.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("platform/db: ping: %w", err)
	}

	return conn, nil
}
