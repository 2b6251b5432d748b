package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/importer"
	"github.com/scrypster/kindred/pkg/types"
)

func TestEventWriterCreatesFile(t *testing.T) {
	dir := t.TempDir()
	w := NewEventWriter(dir)

	require.NoError(t, w.Notify(EventTreeImported, "imp:abc/123"))

	entries, err := os.ReadDir(filepath.Join(dir, "events"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".event", filepath.Ext(entries[0].Name()))
	assert.Contains(t, entries[0].Name(), "imp_abc_123")
}

func TestEventWatcherReceivesEvent(t *testing.T) {
	dir := t.TempDir()
	received := make(chan Event, 1)

	watcher := NewEventWatcher(dir, func(evt Event) { received <- evt }, nil)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	// Give fsnotify a moment to register
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, NewEventWriter(dir).Notify(EventTreeImported, "imp:42"))

	select {
	case evt := <-received:
		assert.Equal(t, EventTreeImported, evt.Type)
		assert.Equal(t, "imp:42", evt.ImportID)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestEventWatcherDrainsExisting(t *testing.T) {
	dir := t.TempDir()

	writer := NewEventWriter(dir)
	require.NoError(t, writer.Notify(EventTreeImported, "imp:1"))
	require.NoError(t, writer.Notify(EventTreeImported, "imp:2"))

	received := make(chan string, 10)
	watcher := NewEventWatcher(dir, func(evt Event) { received <- evt.ImportID }, nil)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	// Draining happens synchronously inside Start.
	assert.Len(t, received, 2)
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "imp_abc_def", sanitizeID("imp:abc/def"))
}

func writeTree(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.NewEngine(graph.New(), engine.DefaultConfig(), nil)
	require.NoError(t, err)
	return e
}

func TestReloader_SwapsGraphAndKeepsFocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.csv")
	writeTree(t, path, "Alice,,,,\nBob,Alice,,,\n")

	e := newTestEngine(t)
	var reports atomic.Int32
	r := &Reloader{
		Source:   importer.FileSource{Path: path},
		Engine:   e,
		OnReload: func(graph.BuildReport) { reports.Add(1) },
	}

	report, err := r.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Edges)
	assert.True(t, e.Graph().Has("Bob"))

	_, err = e.Select("Alice")
	require.NoError(t, err)

	writeTree(t, path, "Alice,,,,\nBob,Alice,,,\nCarol,Alice,,,\n")
	_, err = r.Reload(context.Background())
	require.NoError(t, err)

	sel := e.Current()
	require.NotNil(t, sel)
	assert.Equal(t, types.RelChild, sel.Relationship("Carol"))
	assert.Equal(t, int32(2), reports.Load())
}

type failingSource struct{}

func (failingSource) Rows(context.Context) ([]types.Row, error) {
	return nil, errors.New("sheet unavailable")
}

func TestReloader_ErrorKeepsOldGraph(t *testing.T) {
	e := newTestEngine(t)
	before := e.Graph()

	r := &Reloader{Source: failingSource{}, Engine: e}
	_, err := r.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, before, e.Graph())
}

func TestTreeWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.csv")
	writeTree(t, path, "Alice,,,,\n")

	e := newTestEngine(t)
	r := &Reloader{Source: importer.FileSource{Path: path}, Engine: e}
	_, err := r.Reload(context.Background())
	require.NoError(t, err)

	tw := NewTreeWatcher(path, r, nil)
	tw.SetDebounce(10 * time.Millisecond)
	require.NoError(t, tw.Start())
	defer tw.Stop()

	time.Sleep(50 * time.Millisecond)
	writeTree(t, path, "Alice,,,,\nDana,Alice,,,\n")

	require.Eventually(t, func() bool {
		return e.Graph().Has("Dana")
	}, 3*time.Second, 20*time.Millisecond)
}

func TestTreeWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.csv")
	writeTree(t, path, "Alice,,,,\n")

	e := newTestEngine(t)
	var calls atomic.Int32
	r := &Reloader{
		Source:   importer.FileSource{Path: path},
		Engine:   e,
		OnReload: func(graph.BuildReport) { calls.Add(1) },
	}

	tw := NewTreeWatcher(path, r, nil)
	tw.SetDebounce(10 * time.Millisecond)
	require.NoError(t, tw.Start())
	defer tw.Stop()

	time.Sleep(50 * time.Millisecond)
	writeTree(t, filepath.Join(dir, "notes.txt"), "unrelated")
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
}
