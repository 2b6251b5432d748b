package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/graph"
)

// Engine owns the loaded family tree for a session and the current focal
// selection. Recomputation itself is pure; Engine only serializes access so
// HTTP handlers and the file watcher can share one tree.
//
// A selection is always computed against a single graph snapshot. Reload
// swaps the graph and drops every cached selection at once.
type Engine struct {
	config Config
	logger *zap.Logger

	mu      sync.RWMutex
	graph   *graph.Graph
	current *Selection
	cache   *lru.Cache[string, *Selection]

	// onSelect is called after Select or Clear, outside the lock. A nil
	// Selection in the view means nobody is selected.
	onSelect func(v View)
}

// View pairs a selection with the graph it was computed against. Callers
// that render both must take them from one View; reading Graph and Current
// separately can straddle a Reload. Selection is nil when nobody is selected.
type View struct {
	Graph     *graph.Graph
	Selection *Selection
}

// NewEngine creates an engine serving g. A nil logger disables logging.
func NewEngine(g *graph.Graph, cfg Config, logger *zap.Logger) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine: graph is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		config: cfg,
		logger: logger,
		graph:  g,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, *Selection](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("engine: selection cache: %w", err)
		}
		e.cache = cache
	}
	observeGraph(g)
	return e, nil
}

// SetOnSelect registers a callback invoked after each successful Select
// and after Clear.
func (e *Engine) SetOnSelect(fn func(v View)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSelect = fn
}

// Graph returns the graph currently being served.
func (e *Engine) Graph() *graph.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph
}

// Current returns the active selection, or nil before anyone is selected.
func (e *Engine) Current() *Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// View returns the served graph and the active selection as one consistent pair.
func (e *Engine) View() View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return View{Graph: e.graph, Selection: e.current}
}

// Select makes focal the active selection and returns its result.
func (e *Engine) Select(focal string) (*Selection, error) {
	v, err := e.SelectView(focal)
	if err != nil {
		return nil, err
	}
	return v.Selection, nil
}

// SelectView is Select returning the graph the selection was computed on.
func (e *Engine) SelectView(focal string) (View, error) {
	e.mu.Lock()
	sel, err := e.lookupLocked(focal)
	if err != nil {
		e.mu.Unlock()
		return View{}, err
	}
	e.current = sel
	v := View{Graph: e.graph, Selection: sel}
	onSelect := e.onSelect
	e.mu.Unlock()

	e.logger.Debug("focal person selected", zap.String("focal", focal))
	if onSelect != nil {
		onSelect(v)
	}
	return v, nil
}

// Lookup computes the selection for focal without changing the active one.
func (e *Engine) Lookup(focal string) (*Selection, error) {
	v, err := e.LookupView(focal)
	if err != nil {
		return nil, err
	}
	return v.Selection, nil
}

// LookupView is Lookup returning the graph the selection was computed on.
func (e *Engine) LookupView(focal string) (View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel, err := e.lookupLocked(focal)
	if err != nil {
		return View{}, err
	}
	return View{Graph: e.graph, Selection: sel}, nil
}

// Clear drops the active selection so every person renders neutrally. The
// returned view carries the graph being served and a nil selection.
func (e *Engine) Clear() View {
	e.mu.Lock()
	e.current = nil
	v := View{Graph: e.graph}
	onSelect := e.onSelect
	e.mu.Unlock()

	if onSelect != nil {
		onSelect(v)
	}
	return v
}

// Reload replaces the served graph. The active focal person is re-selected
// against the new graph when it still exists; otherwise the selection is
// cleared.
func (e *Engine) Reload(g *graph.Graph) error {
	if g == nil {
		return errors.New("engine: graph is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.graph = g
	if e.cache != nil {
		e.cache.Purge()
	}
	observeGraph(g)

	if e.current == nil {
		return nil
	}
	focal := e.current.Focal
	sel, err := e.lookupLocked(focal)
	if err != nil {
		e.logger.Info("focal person no longer in tree, clearing selection", zap.String("focal", focal))
		e.current = nil
		return nil
	}
	e.current = sel
	return nil
}

// lookupLocked returns a cached selection or recomputes it. e.mu must be held.
func (e *Engine) lookupLocked(focal string) (*Selection, error) {
	if e.cache != nil {
		if sel, ok := e.cache.Get(focal); ok {
			selectionCacheTotal.WithLabelValues("hit").Inc()
			return sel, nil
		}
		selectionCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	sel, err := Recompute(e.graph, focal)
	recomputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		recomputeTotal.WithLabelValues("unknown_person").Inc()
		return nil, err
	}
	recomputeTotal.WithLabelValues("ok").Inc()

	if e.cache != nil {
		e.cache.Add(focal, sel)
	}
	return sel, nil
}

func observeGraph(g *graph.Graph) {
	graphPeople.Set(float64(g.Len()))
	graphEdges.Set(float64(len(g.Edges())))
}
