// Package presentation turns selection results into style tags and a
// renderer-ready snapshot. It holds no state; every function is pure.
package presentation

import (
	"fmt"

	"github.com/scrypster/kindred/pkg/types"
)

// TagSelected marks the focal person (depth 0).
const TagSelected = "selected"

// maxDistanceTag is the deepest hop count that gets its own tag.
const maxDistanceTag = 3

// Link layout distances used by the force simulation.
const (
	ParentLinkDistance  = 100
	SpouseLinkDistance  = 20
	DefaultLinkDistance = 200
)

// RelationshipTag returns the style tag for rel, or "" for RelNone.
func RelationshipTag(rel types.Relationship) string {
	if rel == types.RelNone || !rel.Valid() {
		return ""
	}
	return rel.String()
}

// DistanceTag returns "selected" for depth 0, "dist-N" for 1..3, and ""
// for anything deeper or unreached.
func DistanceTag(depth int) string {
	switch {
	case depth == 0:
		return TagSelected
	case depth > 0 && depth <= maxDistanceTag:
		return fmt.Sprintf("dist-%d", depth)
	}
	return ""
}

// NodeTags returns the style tags for a person with the given relationship
// and depth. A person with no relationship and no depth gets no tags.
func NodeTags(rel types.Relationship, depth int) []string {
	tags := make([]string, 0, 2)
	if tag := DistanceTag(depth); tag != "" {
		tags = append(tags, tag)
	}
	if tag := RelationshipTag(rel); tag != "" {
		tags = append(tags, tag)
	}
	return tags
}

// LinkTags returns the style tags for an edge of type t.
func LinkTags(t types.LinkType) []string {
	if !t.Valid() {
		return nil
	}
	return []string{t.String()}
}

// LinkDistance returns the preferred layout length for an edge of type t.
func LinkDistance(t types.LinkType) int {
	switch t {
	case types.LinkMother, types.LinkFather:
		return ParentLinkDistance
	case types.LinkSpouse:
		return SpouseLinkDistance
	}
	return DefaultLinkDistance
}
