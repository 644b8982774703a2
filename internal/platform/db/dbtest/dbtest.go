// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/platform/db"
)

// Open returns a bootstrapped database backed by a file in t.TempDir().
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "nanoerp.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Bootstrap(context.Background(), conn); err != nil {
		t.Fatalf("bootstrap test db: %v", err)
	}
	return conn
}
