package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List returns the snapshots in dir, newest first. A missing directory
// yields an empty list.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backup: read snapshot directory: %w", err)
	}

	out := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Path:      filepath.Join(dir, name),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}

	// Names embed the creation time, so they break modification-time ties.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Path > out[j].Path
	})
	return out, nil
}

// Prune keeps the newest keep snapshots in dir and deletes the rest.
// keep <= 0 disables pruning. It returns the removed paths.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	snaps, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(snaps) <= keep {
		return nil, nil
	}

	var removed []string
	for _, s := range snaps[keep:] {
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("backup: remove %s: %w", s.Path, err)
		}
		removed = append(removed, s.Path)
	}
	return removed, nil
}
