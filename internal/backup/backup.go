// Package backup takes point-in-time snapshots of the SQLite tree database
// so an import that replaces the stored tree can be rolled back.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrVerifyFailed is returned when a snapshot fails SQLite's integrity check.
var ErrVerifyFailed = errors.New("snapshot integrity check failed")

// snapshotPrefix and snapshotExt name the files owned by this package.
const (
	snapshotPrefix = "kindred-"
	snapshotExt    = ".db"
)

// Info describes one snapshot file.
type Info struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// Snapshot writes a consistent copy of db into dir using VACUUM INTO and
// verifies it. VACUUM INTO reads through the WAL, so the live database does
// not need to be checkpointed first.
func Snapshot(ctx context.Context, db *sql.DB, dir string) (*Info, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("backup: create snapshot directory: %w", err)
	}

	// Microseconds keep names unique across quick successive imports.
	stamp := time.Now().UTC().Format("20060102-150405.000000")
	path := filepath.Join(dir, snapshotPrefix+stamp+snapshotExt)

	quoted := strings.ReplaceAll(path, "'", "''")
	if _, err := db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", quoted)); err != nil {
		return nil, fmt.Errorf("backup: snapshot: %w", err)
	}

	if err := Verify(path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("backup: stat snapshot: %w", err)
	}
	return &Info{Path: path, Timestamp: st.ModTime(), Size: st.Size()}, nil
}

// Verify opens path read-only and runs PRAGMA integrity_check.
func Verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("backup: open snapshot: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("backup: integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, result)
	}
	return nil
}

// Restore copies a verified snapshot over targetPath. The target database
// must not be open. Stale -wal and -shm files next to the target are removed
// so SQLite does not replay them over the restored data.
func Restore(snapshotPath, targetPath string) error {
	if err := Verify(snapshotPath); err != nil {
		return err
	}

	src, err := os.Open(snapshotPath)
	if err != nil {
		return fmt.Errorf("backup: open snapshot: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp := targetPath + ".restore"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("backup: create target: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: copy snapshot: %w", err)
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: sync target: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: close target: %w", err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(targetPath + suffix); err != nil && !os.IsNotExist(err) {
			_ = os.Remove(tmp)
			return fmt.Errorf("backup: remove %s: %w", suffix, err)
		}
	}
	if err := os.Rename(tmp, targetPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: replace target: %w", err)
	}

	return Verify(targetPath)
}
