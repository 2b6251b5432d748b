package graph

import (
	"errors"

	"go.uber.org/zap"

	"github.com/scrypster/kindred/pkg/types"
)

// UnresolvedRef records a relative named in a row that has no row of its own.
type UnresolvedRef struct {
	Person string         `json:"person"`
	Name   string         `json:"name"`
	Type   types.LinkType `json:"type"`
}

// BuildReport summarizes what FromRows did with its input.
type BuildReport struct {
	Rows       int             `json:"rows"`
	Dropped    int             `json:"dropped"`
	Duplicates []string        `json:"duplicates,omitempty"`
	Unresolved []UnresolvedRef `json:"unresolved,omitempty"`
	Edges      int             `json:"edges"`
}

// rowLinks is the column order links are created in for each row.
var rowLinks = []types.LinkType{types.LinkMother, types.LinkFather, types.LinkSpouse}

// FromRows builds a graph from raw rows. Every named row becomes a person
// before any edge is created, so rows may reference people defined later.
//
// Malformed input never fails the build: nameless rows are dropped,
// duplicate names keep the last blurb, and references to people without a
// row of their own are skipped and reported.
func FromRows(rows []types.Row, logger *zap.Logger) (*Graph, BuildReport) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := New()
	report := BuildReport{Rows: len(rows)}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.Name == "" {
			report.Dropped++
			continue
		}
		if seen[row.Name] {
			report.Duplicates = append(report.Duplicates, row.Name)
		}
		seen[row.Name] = true
		// Name is non-empty, so AddPerson cannot fail here.
		_, _ = g.AddPerson(row.Name, row.Blurb)
	}

	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		for _, t := range rowLinks {
			relative := row.Link(t)
			if relative == "" {
				continue
			}
			err := g.AddEdge(relative, row.Name, t)
			if errors.Is(err, ErrUnknownPerson) {
				report.Unresolved = append(report.Unresolved, UnresolvedRef{
					Person: row.Name,
					Name:   relative,
					Type:   t,
				})
				logger.Debug("skipping unresolved relative",
					zap.String("person", row.Name),
					zap.String("relative", relative),
					zap.Stringer("link", t))
				continue
			}
			if err != nil {
				logger.Warn("skipping edge", zap.String("person", row.Name), zap.Error(err))
			}
		}
	}

	report.Edges = len(g.edges)
	logger.Info("family tree built",
		zap.Int("rows", report.Rows),
		zap.Int("people", g.Len()),
		zap.Int("edges", report.Edges),
		zap.Int("dropped", report.Dropped),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("unresolved", len(report.Unresolved)))

	return g, report
}
