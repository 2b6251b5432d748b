// Package engine derives kinship and graph distance for a focal person.
//
// Every named category is computed by an independent pure function over the
// three primitive queries (ParentsOf, ChildrenOf, SpouseOf). Each returns a
// deduplicated list in discovery order. ResolveRelationships composes them
// in a fixed order where later categories overwrite earlier ones.
package engine

// Tree is the read-only view of the family graph the engine works against.
// *graph.Graph satisfies it.
type Tree interface {
	Has(name string) bool
	Names() []string
	ParentsOf(name string) []string
	ChildrenOf(name string) []string
	SpouseOf(name string) (string, bool)
	Neighbors(name string) []string
}

// nameSet accumulates names once each, remembering first-seen order.
type nameSet struct {
	seen  map[string]bool
	names []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]bool)}
}

func (s *nameSet) add(names ...string) {
	for _, n := range names {
		if s.seen[n] {
			continue
		}
		s.seen[n] = true
		s.names = append(s.names, n)
	}
}

func (s *nameSet) list() []string {
	return s.names
}

// expand applies step to every name in from and collects the union.
func expand(from []string, step func(string) []string) []string {
	out := newNameSet()
	for _, n := range from {
		out.add(step(n)...)
	}
	return out.list()
}

// Parents returns the focal person's parents.
func Parents(t Tree, focal string) []string {
	return expand([]string{focal}, t.ParentsOf)
}

// Children returns the focal person's children.
func Children(t Tree, focal string) []string {
	return expand([]string{focal}, t.ChildrenOf)
}

// Siblings returns every other child of any of focal's parents. Half
// siblings are included.
func Siblings(t Tree, focal string) []string {
	out := newNameSet()
	for _, p := range t.ParentsOf(focal) {
		for _, c := range t.ChildrenOf(p) {
			if c != focal {
				out.add(c)
			}
		}
	}
	return out.list()
}

// AuntsUncles returns the siblings of focal's parents together with each
// sibling's spouse.
func AuntsUncles(t Tree, focal string) []string {
	out := newNameSet()
	for _, p := range t.ParentsOf(focal) {
		for _, s := range Siblings(t, p) {
			out.add(s)
			if spouse, ok := t.SpouseOf(s); ok {
				out.add(spouse)
			}
		}
	}
	return out.list()
}

// Grandparents returns the parents of focal's parents.
func Grandparents(t Tree, focal string) []string {
	return expand(Parents(t, focal), t.ParentsOf)
}

// GreatGrandparents returns the parents of focal's grandparents.
func GreatGrandparents(t Tree, focal string) []string {
	return expand(Grandparents(t, focal), t.ParentsOf)
}

// Cousins returns the children of every aunt or uncle, spouses included.
func Cousins(t Tree, focal string) []string {
	return expand(AuntsUncles(t, focal), t.ChildrenOf)
}

// Grandchildren returns the children of focal's children.
func Grandchildren(t Tree, focal string) []string {
	return expand(Children(t, focal), t.ChildrenOf)
}

// GreatGrandchildren returns the children of focal's grandchildren.
func GreatGrandchildren(t Tree, focal string) []string {
	return expand(Grandchildren(t, focal), t.ChildrenOf)
}
