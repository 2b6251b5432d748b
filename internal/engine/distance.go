package engine

import (
	"fmt"

	"github.com/scrypster/kindred/internal/graph"
)

// Unreached is the depth of a person with no path to the focal person.
const Unreached = -1

// BreadthFirstSearch walks the undirected, untyped view of t starting at
// start. visitor is called once per reachable person with its hop count,
// in BFS order; returning false stops the walk.
//
// Neighbors are expanded in edge insertion order and a person is marked
// visited when first discovered, so depths and visit order are
// deterministic for a fixed graph.
func BreadthFirstSearch(t Tree, start string, visitor func(name string, depth int) bool) error {
	if !t.Has(start) {
		return fmt.Errorf("engine: bfs from %q: %w", start, graph.ErrUnknownPerson)
	}

	type queueItem struct {
		name  string
		depth int
	}

	visited := map[string]bool{start: true}
	queue := []queueItem{{start, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !visitor(current.name, current.depth) {
			return nil
		}

		for _, next := range t.Neighbors(current.name) {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, queueItem{next, current.depth + 1})
		}
	}
	return nil
}

// LabelDistances returns the hop count from focal for every person in t.
// People that cannot be reached keep Unreached. An unknown focal leaves
// every person Unreached.
func LabelDistances(t Tree, focal string) map[string]int {
	names := t.Names()
	depths := make(map[string]int, len(names))
	for _, n := range names {
		depths[n] = Unreached
	}

	_ = BreadthFirstSearch(t, focal, func(name string, depth int) bool {
		depths[name] = depth
		return true
	})
	return depths
}
