package notify

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// TreeWatcher reloads the engine when the tree file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still noticed.
type TreeWatcher struct {
	path     string
	reloader *Reloader
	logger   *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewTreeWatcher creates a watcher for the tree file at path.
func NewTreeWatcher(path string, reloader *Reloader, logger *zap.Logger) *TreeWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeWatcher{
		path:     filepath.Clean(path),
		reloader: reloader,
		logger:   logger,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
}

// SetDebounce changes the quiet period before a reload. Call before Start.
func (tw *TreeWatcher) SetDebounce(d time.Duration) {
	tw.debounce = d
}

// Start begins watching. Call Stop to clean up.
func (tw *TreeWatcher) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(tw.path)); err != nil {
		_ = w.Close()
		return err
	}
	tw.watcher = w

	go tw.loop()
	tw.logger.Info("notify: watching tree file", zap.String("path", tw.path))
	return nil
}

// Stop shuts down the watcher and cancels any pending reload.
func (tw *TreeWatcher) Stop() {
	if tw.watcher == nil {
		return
	}
	_ = tw.watcher.Close()
	<-tw.done

	tw.mu.Lock()
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.mu.Unlock()
}

func (tw *TreeWatcher) loop() {
	defer close(tw.done)
	for {
		select {
		case evt, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != tw.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				tw.schedule()
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("notify: watcher error", zap.Error(err))
		}
	}
}

// schedule arms (or re-arms) the debounce timer.
func (tw *TreeWatcher) schedule() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timer != nil {
		tw.timer.Stop()
	}
	tw.timer = time.AfterFunc(tw.debounce, tw.fire)
}

func (tw *TreeWatcher) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := tw.reloader.Reload(ctx); err != nil {
		// A half-written file usually parses on the next event.
		tw.logger.Warn("notify: reload after file change failed", zap.String("path", tw.path), zap.Error(err))
	}
}
