package types

import "fmt"

// Relationship classifies how a person is related to the focal person.
// The numeric values are stable and used by the renderer.
type Relationship int

// Relationship constants. Keep this block in sync with relationshipNames.
const (
	RelNone Relationship = iota
	RelSelf
	RelParent
	RelSibling
	RelGrandparent
	RelAuntUncle
	RelCousin
	RelChild
	RelGrandchild
	RelGreatGrandparent
	RelGreatGrandchild
)

var relationshipNames = []string{
	RelNone:             "none",
	RelSelf:             "self",
	RelParent:           "parent",
	RelSibling:          "sibling",
	RelGrandparent:      "grandparent",
	RelAuntUncle:        "aunt-uncle",
	RelCousin:           "cousin",
	RelChild:            "child",
	RelGrandchild:       "grandchild",
	RelGreatGrandparent: "great-grandparent",
	RelGreatGrandchild:  "great-grandchild",
}

// AllRelationships lists every relationship tag in declaration order.
var AllRelationships = []Relationship{
	RelNone,
	RelSelf,
	RelParent,
	RelSibling,
	RelGrandparent,
	RelAuntUncle,
	RelCousin,
	RelChild,
	RelGrandchild,
	RelGreatGrandparent,
	RelGreatGrandchild,
}

// String returns the kebab-case tag for r, e.g. "aunt-uncle".
func (r Relationship) String() string {
	if r.Valid() {
		return relationshipNames[r]
	}
	return fmt.Sprintf("relationship(%d)", int(r))
}

// Valid reports whether r is a defined relationship tag.
func (r Relationship) Valid() bool {
	return r >= RelNone && int(r) < len(relationshipNames)
}

// ParseRelationship converts a kebab-case tag back to a Relationship.
func ParseRelationship(s string) (Relationship, error) {
	for i, name := range relationshipNames {
		if name == s {
			return Relationship(i), nil
		}
	}
	return RelNone, fmt.Errorf("unknown relationship %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Relationship) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid relationship %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relationship) UnmarshalText(text []byte) error {
	parsed, err := ParseRelationship(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
