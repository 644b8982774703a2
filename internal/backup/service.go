// Package backup snapshots the database file and restores snapshots over the
// live path. Restore takes effect on the next process start.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nanoerp/nanoerp/internal/shared"
)

// Snapshot describes one backup file.
type Snapshot struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Service copies the live database file in and out of the backups directory.
type Service struct {
	conn   *sqlx.DB
	dbPath string
	dir    string
	now    func() time.Time
}

// NewService builds a Service writing snapshots under dir.
func NewService(conn *sqlx.DB, dbPath, dir string) *Service {
	return &Service{conn: conn, dbPath: dbPath, dir: dir, now: time.Now}
}

// Create checkpoints the WAL so the main file is complete, then copies it to
// a fresh snapshot name.
func (s *Service) Create(ctx context.Context) (*Snapshot, error) {
	if _, err := s.conn.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return nil, fmt.Errorf("backup: wal checkpoint: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("backup: create dir: %w", err)
	}

	name := fmt.Sprintf("nanoerp-%s-%s.db",
		s.now().Format("20060102-150405"), uuid.NewString()[:8])
	dst := filepath.Join(s.dir, name)
	if err := copyFile(s.dbPath, dst); err != nil {
		return nil, fmt.Errorf("backup: snapshot: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, fmt.Errorf("backup: stat snapshot: %w", err)
	}
	return &Snapshot{Name: name, SizeBytes: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List returns the snapshots in the backups directory, newest first.
func (s *Service) List(ctx context.Context) ([]Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup: list: %w", err)
	}

	out := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Snapshot{Name: e.Name(), SizeBytes: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Restore copies the named snapshot over the live database path. The open
// connection keeps serving the old data until the process restarts.
func (s *Service) Restore(ctx context.Context, name string) error {
	// Snapshot names are flat; reject anything path-like.
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("backup: bad snapshot name %q: %w", name, shared.ErrValidation)
	}
	src := filepath.Join(s.dir, name)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("backup: snapshot %q: %w", name, shared.ErrNotFound)
	}
	if err := copyFile(src, s.dbPath); err != nil {
		return fmt.Errorf("backup: restore: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
