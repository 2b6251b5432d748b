package types

import "fmt"

// LinkType is the kind of a kinship edge. Only three primitives exist;
// every other relationship is derived from them.
type LinkType int

const (
	// LinkMother is a directed parent->child edge whose source is the mother.
	LinkMother LinkType = iota

	// LinkFather is a directed parent->child edge whose source is the father.
	LinkFather

	// LinkSpouse connects two partners. Stored as an ordered pair but
	// queried symmetrically.
	LinkSpouse
)

var linkTypeNames = map[LinkType]string{
	LinkMother: "mother",
	LinkFather: "father",
	LinkSpouse: "spouse",
}

// String returns the lowercase name of the link type ("mother", "father", "spouse").
func (t LinkType) String() string {
	if name, ok := linkTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("link(%d)", int(t))
}

// IsParental reports whether the link runs from a parent to a child.
func (t LinkType) IsParental() bool {
	return t == LinkMother || t == LinkFather
}

// Valid reports whether t is one of the three defined link types.
func (t LinkType) Valid() bool {
	_, ok := linkTypeNames[t]
	return ok
}

// ParseLinkType converts a lowercase link name back into a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	for t, name := range linkTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown link type %q", s)
}

// MarshalText implements encoding.TextMarshaler so link types serialize by name.
func (t LinkType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid link type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LinkType) UnmarshalText(text []byte) error {
	parsed, err := ParseLinkType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Edge is an immutable kinship link between two people, identified by name.
// For parental links Source is the parent and Target the child.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   LinkType `json:"type"`
}

// Touches reports whether name is either endpoint of the edge.
func (e Edge) Touches(name string) bool {
	return e.Source == name || e.Target == name
}

// Other returns the endpoint opposite name. The second result is false when
// name is not an endpoint of e.
func (e Edge) Other(name string) (string, bool) {
	switch name {
	case e.Source:
		return e.Target, true
	case e.Target:
		return e.Source, true
	}
	return "", false
}
