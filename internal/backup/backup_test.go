package backup_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/kindred/internal/backup"
	"github.com/scrypster/kindred/internal/storage/sqlite"
	"github.com/scrypster/kindred/pkg/types"
)

func openStore(t *testing.T, path string) *sqlite.TreeStore {
	t.Helper()
	store, err := sqlite.NewTreeStore(path, nil)
	require.NoError(t, err)
	return store
}

func TestSnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kindred.db")
	snapDir := filepath.Join(dir, "backups")

	original := []types.Row{
		{Name: "Alice"},
		{Name: "Bob", Mother: "Alice"},
	}

	store := openStore(t, dbPath)
	_, err := store.SaveRows(ctx, original, "first.csv")
	require.NoError(t, err)

	info, err := backup.Snapshot(ctx, store.GetDB(), snapDir)
	require.NoError(t, err)
	assert.FileExists(t, info.Path)
	assert.Positive(t, info.Size)
	require.NoError(t, backup.Verify(info.Path))

	_, err = store.SaveRows(ctx, []types.Row{{Name: "Zed"}}, "second.csv")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, backup.Restore(info.Path, dbPath))

	store = openStore(t, dbPath)
	defer store.Close()
	rows, err := store.LoadRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, rows)

	rec, err := store.LastImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first.csv", rec.Source)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kindred-bad.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database at all, just some text"), 0o600))

	assert.Error(t, backup.Verify(path))
	assert.Error(t, backup.Verify(filepath.Join(t.TempDir(), "missing.db")))
}

func TestListAndPrune(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("kindred-2026010%d-000000.000000.db", i))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}
	// Files that are not snapshots are never listed or pruned.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.db"), []byte("x"), 0o600))

	snaps, err := backup.List(dir)
	require.NoError(t, err)
	require.Len(t, snaps, 5)
	assert.Equal(t, "kindred-20260104-000000.000000.db", filepath.Base(snaps[0].Path), "newest first")

	removed, err := backup.Prune(dir, 2)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	snaps, err = backup.List(dir)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "kindred-20260104-000000.000000.db", filepath.Base(snaps[0].Path))
	assert.Equal(t, "kindred-20260103-000000.000000.db", filepath.Base(snaps[1].Path))
	assert.FileExists(t, filepath.Join(dir, "other.db"))

	removed, err = backup.Prune(dir, 0)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestListMissingDirectory(t *testing.T) {
	snaps, err := backup.List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
