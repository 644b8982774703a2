package backup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nanoerp/nanoerp/internal/platform/db"
	"github.com/nanoerp/nanoerp/internal/shared"
)

func newTestService(t *testing.T) (*Service, *sqlx.DB) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nanoerp.db")

	conn, err := db.Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Bootstrap(context.Background(), conn))

	return NewService(conn, dbPath, filepath.Join(dir, "backups")), conn
}

func TestCreateAndListSnapshots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	snap, err := svc.Create(ctx)
	require.NoError(t, err)
	require.Regexp(t, `^nanoerp-\d{8}-\d{6}-[0-9a-f]{8}\.db$`, snap.Name)
	require.Positive(t, snap.SizeBytes)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, snap.Name, list[0].Name)
}

func TestListEmptyWhenDirMissing(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRestoreRejectsUnknownAndUnsafeNames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Restore(ctx, "no-such-snapshot.db")
	require.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.Restore(ctx, "../nanoerp.db")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRestoreCopiesSnapshotOverLivePath(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	_, err := conn.Exec(`INSERT INTO customers (name) VALUES ('Asha')`)
	require.NoError(t, err)

	snap, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Restore(ctx, snap.Name))
}
