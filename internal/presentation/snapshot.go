package presentation

import (
	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/pkg/types"
)

// Node is one person as the renderer sees it.
type Node struct {
	Index        int                `json:"index"`
	Name         string             `json:"name"`
	Blurb        string             `json:"blurb,omitempty"`
	Relationship types.Relationship `json:"relationship"`
	Depth        int                `json:"depth"`
	Tags         []string           `json:"tags"`
}

// Link is one edge as the renderer sees it. Source and Target are indexes
// into Snapshot.Nodes.
type Link struct {
	Source   int            `json:"source"`
	Target   int            `json:"target"`
	Type     types.LinkType `json:"type"`
	Tags     []string       `json:"tags"`
	Distance int            `json:"distance"`
}

// InfoCard is the detail panel content for the focal person.
type InfoCard struct {
	Name  string `json:"name"`
	Blurb string `json:"blurb"`
}

// Snapshot is everything the renderer needs to draw one state of the tree.
type Snapshot struct {
	Focal string    `json:"focal,omitempty"`
	Info  *InfoCard `json:"info,omitempty"`
	Nodes []Node    `json:"nodes"`
	Links []Link    `json:"links"`
}

// BuildSnapshot combines g with sel. A nil sel produces the neutral style:
// every node has RelNone, depth -1 and no tags.
func BuildSnapshot(g *graph.Graph, sel *engine.Selection) Snapshot {
	people := g.People()
	positions := make(map[string]int, len(people))

	snap := Snapshot{
		Nodes: make([]Node, 0, len(people)),
		Links: make([]Link, 0),
	}
	for i, p := range people {
		positions[p.Name] = i
		rel := sel.Relationship(p.Name)
		depth := sel.Depth(p.Name)
		snap.Nodes = append(snap.Nodes, Node{
			Index:        i,
			Name:         p.Name,
			Blurb:        p.Blurb,
			Relationship: rel,
			Depth:        depth,
			Tags:         NodeTags(rel, depth),
		})
	}

	for _, e := range g.Edges() {
		snap.Links = append(snap.Links, Link{
			Source:   positions[e.Source],
			Target:   positions[e.Target],
			Type:     e.Type,
			Tags:     LinkTags(e.Type),
			Distance: LinkDistance(e.Type),
		})
	}

	if sel != nil {
		snap.Focal = sel.Focal
		card := Card(g, sel.Focal)
		snap.Info = &card
	}
	return snap
}

// Card returns the info panel for name.
func Card(g *graph.Graph, name string) InfoCard {
	return InfoCard{Name: name, Blurb: g.Blurb(name)}
}
