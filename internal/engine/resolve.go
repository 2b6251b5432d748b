package engine

import "github.com/scrypster/kindred/pkg/types"

// derivation pairs a relationship tag with the function that finds it.
type derivation struct {
	rel    types.Relationship
	derive func(Tree, string) []string
}

// derivations run in this order and each overwrites the tags set by earlier
// ones. A person in several categories keeps the last one listed here.
var derivations = []derivation{
	{types.RelParent, Parents},
	{types.RelSibling, Siblings},
	{types.RelAuntUncle, AuntsUncles},
	{types.RelGrandparent, Grandparents},
	{types.RelCousin, Cousins},
	{types.RelChild, Children},
	{types.RelGrandchild, Grandchildren},
	{types.RelGreatGrandparent, GreatGrandparents},
	{types.RelGreatGrandchild, GreatGrandchildren},
}

// ResolveRelationships tags every person in t relative to focal. The result
// holds exactly one entry per person; people outside every category are
// RelNone. focal is tagged RelSelf before the derivations run, so a derived
// category that reaches focal again overwrites it.
func ResolveRelationships(t Tree, focal string) map[string]types.Relationship {
	names := t.Names()
	tags := make(map[string]types.Relationship, len(names))
	for _, n := range names {
		tags[n] = types.RelNone
	}
	if !t.Has(focal) {
		return tags
	}

	tags[focal] = types.RelSelf
	for _, d := range derivations {
		for _, n := range d.derive(t, focal) {
			tags[n] = d.rel
		}
	}
	return tags
}
