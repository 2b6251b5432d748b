package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/importer"
)

// Reloader rebuilds the engine's graph from a source.
type Reloader struct {
	Source importer.Source
	Engine *engine.Engine
	Logger *zap.Logger

	// OnReload, when set, is called after every successful reload. Use
	// SetOnReload once reloads may already be running.
	OnReload func(report graph.BuildReport)

	mu sync.Mutex
}

// SetOnReload replaces the OnReload callback.
func (r *Reloader) SetOnReload(fn func(report graph.BuildReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.OnReload = fn
}

// Reload fetches rows, builds a fresh graph and swaps it into the engine.
// Concurrent calls are serialized. On error the engine keeps its old graph.
func (r *Reloader) Reload(ctx context.Context) (graph.BuildReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, err := r.Source.Rows(ctx)
	if err != nil {
		return graph.BuildReport{}, fmt.Errorf("notify: reload: %w", err)
	}

	g, report := graph.FromRows(rows, logger)
	if err := r.Engine.Reload(g); err != nil {
		return report, fmt.Errorf("notify: reload: %w", err)
	}

	logger.Info("notify: tree reloaded",
		zap.Int("people", g.Len()),
		zap.Int("edges", report.Edges),
		zap.Int("unresolved", len(report.Unresolved)))

	if r.OnReload != nil {
		r.OnReload(report)
	}
	return report, nil
}
