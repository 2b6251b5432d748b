package sqlite

import (
	"net/url"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// dbPathFromDSN extracts the filesystem path from a SQLite DSN.
// Handles bare paths ("/path/to/tree.db") and file: URIs ("file:/path/to/tree.db?mode=rwc").
// Returns empty string for in-memory databases or unparseable DSNs.
func dbPathFromDSN(dsn string) string {
	if dsn == ":memory:" || dsn == "" {
		return ""
	}

	if strings.HasPrefix(dsn, "file:") {
		u, err := url.Parse(dsn)
		if err != nil {
			return ""
		}
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == ":memory:" || path == "" {
			return ""
		}
		return path
	}

	return dsn
}

// isRecoverableWALError returns true if the error matches patterns caused by
// stale WAL files left behind after a crash.
func isRecoverableWALError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "disk I/O error") ||
		strings.Contains(msg, "database is locked")
}

// walSidecars lists the files SQLite keeps next to a WAL-mode database.
func walSidecars(dbPath string) []string {
	return []string{dbPath + "-wal", dbPath + "-shm"}
}

// presentSidecars returns the sidecar files of dbPath that exist on disk.
func presentSidecars(dbPath string) []string {
	var present []string
	for _, path := range walSidecars(dbPath) {
		if _, err := os.Stat(path); err == nil {
			present = append(present, path)
		}
	}
	return present
}

// isWALStale reports whether sidecar files exist for dbPath and no process
// holds the database or its sidecars open. Without lsof it reports false, so
// recovery is never attempted blind.
func isWALStale(dbPath string) bool {
	present := presentSidecars(dbPath)
	if len(present) == 0 {
		return false
	}

	lsofPath, err := exec.LookPath("lsof")
	if err != nil {
		return false
	}

	args := append([]string{"-t", dbPath}, present...)
	output, err := exec.Command(lsofPath, args...).Output()
	if err != nil {
		// lsof exits 1 when nothing holds the files open.
		return true
	}
	return strings.TrimSpace(string(output)) == ""
}

// removeStaleWAL deletes the sidecar files of dbPath and returns how many
// were removed.
func removeStaleWAL(dbPath string, logger *zap.Logger) int {
	removed := 0
	for _, path := range presentSidecars(dbPath) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("sqlite: failed to remove stale WAL file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}
