// Package handlers provides the HTTP handlers and middleware that expose the
// relationship engine to the tree renderer.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/presentation"
	"github.com/scrypster/kindred/pkg/types"
)

// maxBodyBytes bounds request bodies; select requests carry one name.
const maxBodyBytes = 1 << 16

// Reloader refreshes the engine from its configured source.
type Reloader interface {
	Reload(ctx context.Context) (graph.BuildReport, error)
}

// TreeHandlers contains HTTP handlers for the tree API.
type TreeHandlers struct {
	engine   *engine.Engine
	reloader Reloader
	logger   *zap.Logger
}

// NewTreeHandlers creates a new TreeHandlers instance. reloader may be nil,
// in which case POST /api/reload is not available.
func NewTreeHandlers(e *engine.Engine, reloader Reloader, logger *zap.Logger) *TreeHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeHandlers{engine: e, reloader: reloader, logger: logger}
}

// Register mounts the API routes on mux.
func (h *TreeHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/graph", h.GetGraph)
	mux.HandleFunc("POST /api/select", h.PostSelect)
	mux.HandleFunc("GET /api/people/{name}", h.GetPerson)
	mux.HandleFunc("GET /api/relationships", h.GetRelationships)
	mux.HandleFunc("POST /api/reload", h.PostReload)
}

// GetGraph handles GET /api/graph. Without parameters it renders the current
// selection. ?focal= previews another person without changing the selection.
func (h *TreeHandlers) GetGraph(w http.ResponseWriter, r *http.Request) {
	view := h.engine.View()
	if focal := r.URL.Query().Get("focal"); focal != "" {
		var err error
		view, err = h.engine.LookupView(focal)
		if err != nil {
			h.respondLookupError(w, focal, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, presentation.BuildSnapshot(view.Graph, view.Selection))
}

// PostSelect handles POST /api/select. It recomputes every relationship for
// the named person and returns the new snapshot. An empty name clears the
// selection.
func (h *TreeHandlers) PostSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Name == "" {
		view := h.engine.Clear()
		respondJSON(w, http.StatusOK, presentation.BuildSnapshot(view.Graph, nil))
		return
	}

	view, err := h.engine.SelectView(req.Name)
	if err != nil {
		h.respondLookupError(w, req.Name, err)
		return
	}
	respondJSON(w, http.StatusOK, presentation.BuildSnapshot(view.Graph, view.Selection))
}

// GetPerson handles GET /api/people/{name}.
func (h *TreeHandlers) GetPerson(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	view := h.engine.View()
	g := view.Graph
	if !g.Has(name) {
		respondError(w, http.StatusNotFound, "person not found", graph.ErrUnknownPerson)
		return
	}

	resp := PersonResponse{
		InfoCard: presentation.Card(g, name),
		Parents:  nonNil(g.ParentsOf(name)),
		Children: nonNil(g.ChildrenOf(name)),
	}
	if spouse, ok := g.SpouseOf(name); ok {
		resp.Spouse = spouse
	}
	if sel := view.Selection; sel != nil {
		resp.Relationship = sel.Relationship(name).String()
		depth := sel.Depth(name)
		resp.Depth = &depth
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetRelationships handles GET /api/relationships. The focal person comes
// from ?focal= or, when absent, the current selection.
func (h *TreeHandlers) GetRelationships(w http.ResponseWriter, r *http.Request) {
	focal := r.URL.Query().Get("focal")
	var view engine.View
	if focal == "" {
		view = h.engine.View()
		if view.Selection == nil {
			respondError(w, http.StatusBadRequest, "focal is required when nobody is selected", nil)
			return
		}
	} else {
		var err error
		view, err = h.engine.LookupView(focal)
		if err != nil {
			h.respondLookupError(w, focal, err)
			return
		}
	}

	sel := view.Selection
	names := view.Graph.Names()
	resp := RelationshipsResponse{
		Focal:  sel.Focal,
		People: make([]RelationshipRow, 0, len(names)),
		Groups: make(map[string][]string),
	}
	for _, name := range names {
		rel := sel.Relationship(name)
		depth := sel.Depth(name)
		resp.People = append(resp.People, RelationshipRow{
			Name:         name,
			Relationship: rel.String(),
			Depth:        depth,
			Tags:         presentation.NodeTags(rel, depth),
		})
		if rel != types.RelNone {
			resp.Groups[rel.String()] = append(resp.Groups[rel.String()], name)
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// PostReload handles POST /api/reload by re-reading the tree source.
func (h *TreeHandlers) PostReload(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		respondError(w, http.StatusNotImplemented, "reload is not configured", nil)
		return
	}
	report, err := h.reloader.Reload(r.Context())
	if err != nil {
		h.logger.Warn("handlers: reload failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "failed to reload tree", err)
		return
	}
	respondJSON(w, http.StatusOK, ReloadResponse{People: h.engine.Graph().Len(), Report: report})
}

// Health handles GET /healthz.
func (h *TreeHandlers) Health(w http.ResponseWriter, r *http.Request) {
	view := h.engine.View()
	resp := HealthResponse{Status: "healthy", People: view.Graph.Len()}
	if view.Selection != nil {
		resp.Focal = view.Selection.Focal
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *TreeHandlers) respondLookupError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, graph.ErrUnknownPerson) {
		respondError(w, http.StatusNotFound, "person not found", err)
		return
	}
	h.logger.Error("handlers: recompute failed", zap.String("focal", name), zap.Error(err))
	respondError(w, http.StatusInternalServerError, "failed to compute relationships", err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent; an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}
	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}
	respondJSON(w, statusCode, errResp)
}
