package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/presentation"
	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/pkg/types"
)

type relateOptions struct {
	file        string
	asJSON      bool
	relatedOnly bool
}

func newRelateCmd(a *app) *cobra.Command {
	opts := relateOptions{}

	cmd := &cobra.Command{
		Use:   "relate <name>",
		Short: "Print how everyone in the tree relates to one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.file != "" {
				a.cfg.Source.Kind = config.SourceFile
				a.cfg.Source.Path = opts.file
				a.cfg.Source.Mirror = false
			}

			var store storage.TreeStore
			if a.needsStore() {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			source, _, err := a.buildSource(cmd.Context(), store)
			if err != nil {
				return err
			}
			g, _, err := a.loadGraph(cmd.Context(), source)
			if err != nil {
				return err
			}

			sel, err := engine.Recompute(g, args[0])
			if err != nil {
				return fmt.Errorf("relate %q: %w", args[0], err)
			}
			return writeRelations(cmd.OutOrStdout(), g, sel, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the tree from this CSV/TSV/YAML file instead of the configured source")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&opts.relatedOnly, "related", false, "only list people with a named relationship")
	return cmd
}

type relationLine struct {
	Name         string             `json:"name"`
	Relationship types.Relationship `json:"relationship"`
	Depth        int                `json:"depth"`
	Tags         []string           `json:"tags"`
}

func writeRelations(w io.Writer, g *graph.Graph, sel *engine.Selection, opts relateOptions) error {
	lines := make([]relationLine, 0, g.Len())
	for _, name := range g.Names() {
		rel := sel.Relationship(name)
		if opts.relatedOnly && rel == types.RelNone {
			continue
		}
		depth := sel.Depth(name)
		lines = append(lines, relationLine{
			Name:         name,
			Relationship: rel,
			Depth:        depth,
			Tags:         presentation.NodeTags(rel, depth),
		})
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Focal  string         `json:"focal"`
			People []relationLine `json:"people"`
		}{sel.Focal, lines})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRELATIONSHIP\tDEPTH\tTAGS")
	for _, l := range lines {
		depth := "-"
		if l.Depth != engine.Unreached {
			depth = fmt.Sprint(l.Depth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Name, l.Relationship, depth, strings.Join(l.Tags, " "))
	}
	return tw.Flush()
}
