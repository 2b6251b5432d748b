package engine

import (
	"testing"

	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/pkg/types"
)

// buildTree builds a graph from positional rows [name, mother, father, spouse, blurb].
func buildTree(t *testing.T, cells ...[]string) *graph.Graph {
	t.Helper()
	rows := make([]types.Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, types.RowFromCells(c))
	}
	g, _ := graph.FromRows(rows, nil)
	return g
}

// nuclearFamily: Alice is the mother of Bob and Carol.
func nuclearFamily(t *testing.T) *graph.Graph {
	return buildTree(t,
		[]string{"Alice"},
		[]string{"Bob", "Alice"},
		[]string{"Carol", "Alice"},
	)
}

// cousinFamily: Alice has Bob and Carol; Bob married Dana; Carol has Eve;
// Bob and Dana have Frank.
func cousinFamily(t *testing.T) *graph.Graph {
	return buildTree(t,
		[]string{"Alice"},
		[]string{"Bob", "Alice"},
		[]string{"Carol", "Alice"},
		[]string{"Dana", "", "", "Bob"},
		[]string{"Eve", "Carol"},
		[]string{"Frank", "Dana", "Bob"},
	)
}

// fourGenerations: Gus -> Hal -> Ivy -> Jo with a spouse and second
// branch so every category is populated when selecting Ivy.
func fourGenerations(t *testing.T) *graph.Graph {
	return buildTree(t,
		[]string{"Gus"},
		[]string{"Hal", "", "Gus"},
		[]string{"Hana", "", "Gus"},
		[]string{"Hugo", "", "", "Hana"},
		[]string{"Kit", "Hana", "Hugo"},
		[]string{"Ivy", "", "Hal"},
		[]string{"Ian", "", "Hal"},
		[]string{"Jo", "Ivy"},
		[]string{"Kai", "Jo"},
		[]string{"Lu", "Kai"},
	)
}
