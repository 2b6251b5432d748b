package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/pkg/types"
)

// newTestStore creates an in-memory SQLite store for testing.
func newTestStore(t *testing.T) *TreeStore {
	t.Helper()
	store, err := NewTreeStore(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRows() []types.Row {
	return []types.Row{
		{Name: "Alice", Spouse: "Bob", Blurb: "Matriarch"},
		{Name: "Bob", Spouse: "Alice"},
		{Name: "Carol", Mother: "Alice", Father: "Bob", Blurb: "Eldest"},
	}
}

func TestSaveAndLoadRowsKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.SaveRows(ctx, sampleRows(), "tree.csv")
	if err != nil {
		t.Fatalf("SaveRows() failed: %v", err)
	}
	if !strings.HasPrefix(rec.ID, "imp:") {
		t.Errorf("ID: got %q, want imp: prefix", rec.ID)
	}
	if rec.RowCount != 3 {
		t.Errorf("RowCount: got %d, want 3", rec.RowCount)
	}

	got, err := store.LoadRows(ctx)
	if err != nil {
		t.Fatalf("LoadRows() failed: %v", err)
	}
	want := sampleRows()
	if len(got) != len(want) {
		t.Fatalf("LoadRows(): got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveRowsReplacesPreviousTree(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveRows(ctx, sampleRows(), "first"); err != nil {
		t.Fatalf("first SaveRows() failed: %v", err)
	}
	second, err := store.SaveRows(ctx, []types.Row{{Name: "Zed"}}, "second")
	if err != nil {
		t.Fatalf("second SaveRows() failed: %v", err)
	}

	got, err := store.LoadRows(ctx)
	if err != nil {
		t.Fatalf("LoadRows() failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Zed" {
		t.Fatalf("LoadRows(): got %+v, want only Zed", got)
	}

	last, err := store.LastImport(ctx)
	if err != nil {
		t.Fatalf("LastImport() failed: %v", err)
	}
	if last.ID != second.ID || last.Source != "second" {
		t.Errorf("LastImport(): got %+v, want %+v", last, second)
	}
}

func TestEmptyStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rows, err := store.LoadRows(ctx)
	if err != nil {
		t.Fatalf("LoadRows() failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("LoadRows(): got %#v, want empty non-nil slice", rows)
	}

	if _, err := store.LastImport(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LastImport(): got %v, want ErrNotFound", err)
	}
}

func TestSaveRowsRejectsUnnamedRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveRows(ctx, sampleRows(), "ok"); err != nil {
		t.Fatalf("SaveRows() failed: %v", err)
	}

	bad := append(sampleRows(), types.Row{Mother: "Alice"})
	_, err := store.SaveRows(ctx, bad, "bad")
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("SaveRows(): got %v, want ErrInvalidInput", err)
	}
	var rowErr *storage.RowError
	if !errors.As(err, &rowErr) || rowErr.Index != 3 {
		t.Errorf("SaveRows(): got %v, want RowError at index 3", err)
	}

	// The earlier tree must survive a rejected batch.
	rows, err := store.LoadRows(ctx)
	if err != nil {
		t.Fatalf("LoadRows() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("LoadRows(): got %d rows, want 3", len(rows))
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.db")
	ctx := context.Background()

	store, err := NewTreeStore(path, nil)
	if err != nil {
		t.Fatalf("NewTreeStore() failed: %v", err)
	}
	if _, err := store.SaveRows(ctx, sampleRows(), path); err != nil {
		t.Fatalf("SaveRows() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := NewTreeStore(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.LoadRows(ctx)
	if err != nil {
		t.Fatalf("LoadRows() failed: %v", err)
	}
	if len(rows) != 3 || rows[2].Blurb != "Eldest" {
		t.Errorf("LoadRows(): got %+v", rows)
	}
}

func TestDBPathFromDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ""},
		{"", ""},
		{"/var/lib/kindred/tree.db", "/var/lib/kindred/tree.db"},
		{"file:/var/lib/kindred/tree.db?mode=rwc", "/var/lib/kindred/tree.db"},
		{"file::memory:?cache=shared", ""},
	}
	for _, tt := range tests {
		if got := dbPathFromDSN(tt.dsn); got != tt.want {
			t.Errorf("dbPathFromDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestIsRecoverableWALError(t *testing.T) {
	if isRecoverableWALError(nil) {
		t.Error("nil error should not be recoverable")
	}
	if !isRecoverableWALError(errors.New("open: disk I/O error")) {
		t.Error("disk I/O error should be recoverable")
	}
	if isRecoverableWALError(errors.New("no such table")) {
		t.Error("schema errors should not be recoverable")
	}
}
