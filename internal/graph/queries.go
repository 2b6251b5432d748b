package graph

import "github.com/scrypster/kindred/pkg/types"

// ParentsOf returns every x with a MOTHER or FATHER edge x->name.
// Unknown names yield nil.
func (g *Graph) ParentsOf(name string) []string {
	var parents []string
	g.edgesOf(name, func(e types.Edge) {
		if e.Type.IsParental() && e.Target == name {
			parents = append(parents, e.Source)
		}
	})
	return parents
}

// ChildrenOf returns every x with a MOTHER or FATHER edge name->x.
func (g *Graph) ChildrenOf(name string) []string {
	var children []string
	g.edgesOf(name, func(e types.Edge) {
		if e.Type.IsParental() && e.Source == name {
			children = append(children, e.Target)
		}
	})
	return children
}

// SpouseOf returns the partner joined to name by a SPOUSE edge in either
// direction. When several exist the most recently added one wins.
func (g *Graph) SpouseOf(name string) (string, bool) {
	var (
		spouse string
		found  bool
	)
	g.edgesOf(name, func(e types.Edge) {
		if e.Type != types.LinkSpouse {
			return
		}
		if other, ok := e.Other(name); ok {
			spouse, found = other, true
		}
	})
	return spouse, found
}

// Neighbors returns the people adjacent to name when every edge is treated as
// undirected and untyped. Order follows edge insertion order; a person
// reachable by several edges appears once per edge.
func (g *Graph) Neighbors(name string) []string {
	var out []string
	g.edgesOf(name, func(e types.Edge) {
		if other, ok := e.Other(name); ok {
			out = append(out, other)
		}
	})
	return out
}
