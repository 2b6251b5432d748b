package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrypster/kindred/internal/importer"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored tree as CSV or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "yaml" {
				return fmt.Errorf("%w: %q", importer.ErrUnsupportedFormat, format)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.LoadRows(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "yaml" {
				return importer.WriteYAML(w, rows)
			}
			records := make([][]string, 0, len(rows))
			for _, r := range rows {
				records = append(records, r.Cells())
			}
			return importer.WriteCSV(w, records)
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
