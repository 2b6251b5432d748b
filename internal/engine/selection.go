package engine

import (
	"fmt"

	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/pkg/types"
)

// Selection is the result of one recomputation for a focal person. It is
// never mutated after Recompute returns, so it can be shared freely.
type Selection struct {
	Focal         string                        `json:"focal"`
	Relationships map[string]types.Relationship `json:"relationships"`
	Depths        map[string]int                `json:"depths"`
}

// Recompute resolves relationships and distances for focal in one pass.
func Recompute(t Tree, focal string) (*Selection, error) {
	if !t.Has(focal) {
		return nil, fmt.Errorf("engine: select %q: %w", focal, graph.ErrUnknownPerson)
	}
	return &Selection{
		Focal:         focal,
		Relationships: ResolveRelationships(t, focal),
		Depths:        LabelDistances(t, focal),
	}, nil
}

// Relationship returns the tag for name. A nil selection or an unknown name
// yields RelNone.
func (s *Selection) Relationship(name string) types.Relationship {
	if s == nil {
		return types.RelNone
	}
	if rel, ok := s.Relationships[name]; ok {
		return rel
	}
	return types.RelNone
}

// Depth returns the hop count for name, or Unreached.
func (s *Selection) Depth(name string) int {
	if s == nil {
		return Unreached
	}
	if d, ok := s.Depths[name]; ok {
		return d
	}
	return Unreached
}

// Members returns the names tagged rel, in the order they appear in names.
func (s *Selection) Members(names []string, rel types.Relationship) []string {
	var out []string
	for _, n := range names {
		if s.Relationship(n) == rel {
			out = append(out, n)
		}
	}
	return out
}
