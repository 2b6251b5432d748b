// Package graph holds the in-memory family tree: people keyed by name and
// the typed kinship edges between them.
//
// The model is built once from raw rows and never shrinks during a session.
// Queries are read-only and safe for concurrent use once construction has
// finished; AddPerson and AddEdge must not race with readers.
package graph

import (
	"errors"
	"fmt"

	"github.com/scrypster/kindred/pkg/types"
)

var (
	// ErrUnknownPerson indicates a name that has no Person in the graph.
	ErrUnknownPerson = errors.New("unknown person")

	// ErrEmptyName indicates an attempt to add a person without a name.
	ErrEmptyName = errors.New("person name is required")

	// ErrInvalidLink indicates an edge with an undefined link type.
	ErrInvalidLink = errors.New("invalid link type")
)

// Graph is the canonical collection of people and kinship edges.
type Graph struct {
	people map[string]*types.Person
	order  []string // insertion order of names
	edges  []types.Edge
	// index maps a name to the positions in edges that touch it, in
	// insertion order.
	index map[string][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		people: make(map[string]*types.Person),
		index:  make(map[string][]int),
	}
}

// AddPerson creates a person or, when the name already exists, replaces its
// blurb (last write wins). The returned bool is true when a new person was
// created.
func (g *Graph) AddPerson(name, blurb string) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}
	if p, ok := g.people[name]; ok {
		p.Blurb = blurb
		return false, nil
	}
	g.people[name] = &types.Person{Name: name, Blurb: blurb}
	g.order = append(g.order, name)
	return true, nil
}

// AddEdge links two existing people. Both endpoints must already be present;
// otherwise ErrUnknownPerson is returned and no edge is created.
func (g *Graph) AddEdge(source, target string, t types.LinkType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLink, int(t))
	}
	if _, ok := g.people[source]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, source)
	}
	if _, ok := g.people[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPerson, target)
	}

	pos := len(g.edges)
	g.edges = append(g.edges, types.Edge{Source: source, Target: target, Type: t})
	g.index[source] = append(g.index[source], pos)
	if target != source {
		g.index[target] = append(g.index[target], pos)
	}
	return nil
}

// Has reports whether a person with the given name exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.people[name]
	return ok
}

// Person returns a copy of the named person.
func (g *Graph) Person(name string) (types.Person, bool) {
	p, ok := g.people[name]
	if !ok {
		return types.Person{}, false
	}
	return *p, true
}

// Blurb returns the display blurb of the named person, or "" when unknown.
func (g *Graph) Blurb(name string) string {
	if p, ok := g.people[name]; ok {
		return p.Blurb
	}
	return ""
}

// Len returns the number of people.
func (g *Graph) Len() int {
	return len(g.order)
}

// Names returns every person name in insertion order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// People returns copies of every person in insertion order.
func (g *Graph) People() []types.Person {
	out := make([]types.Person, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.people[name])
	}
	return out
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []types.Edge {
	out := make([]types.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// edgesOf calls fn for each edge touching name, in insertion order.
func (g *Graph) edgesOf(name string, fn func(e types.Edge)) {
	for _, pos := range g.index[name] {
		fn(g.edges[pos])
	}
}
