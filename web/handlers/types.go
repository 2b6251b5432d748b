package handlers

import (
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/presentation"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SelectRequest is the request body for POST /api/select. An empty name
// clears the selection.
type SelectRequest struct {
	Name string `json:"name"`
}

// PersonResponse is the response format for GET /api/people/{name}.
type PersonResponse struct {
	presentation.InfoCard
	Parents  []string `json:"parents"`
	Children []string `json:"children"`
	Spouse   string   `json:"spouse,omitempty"`

	// Relationship and Depth are relative to the current focal person and
	// are omitted when nobody is selected.
	Relationship string `json:"relationship,omitempty"`
	Depth        *int   `json:"depth,omitempty"`
}

// RelationshipRow is one person in a relationship table.
type RelationshipRow struct {
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	Depth        int      `json:"depth"`
	Tags         []string `json:"tags"`
}

// RelationshipsResponse is the response format for GET /api/relationships.
type RelationshipsResponse struct {
	Focal  string              `json:"focal"`
	People []RelationshipRow   `json:"people"`
	Groups map[string][]string `json:"groups"`
}

// ReloadResponse is the response format for POST /api/reload.
type ReloadResponse struct {
	People int               `json:"people"`
	Report graph.BuildReport `json:"report"`
}

// HealthResponse is the response format for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	People int    `json:"people"`
	Focal  string `json:"focal,omitempty"`
}

// Event types broadcast over the websocket.
const (
	EventSelection = "selection"
	EventReload    = "reload"
)
