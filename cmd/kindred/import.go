package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/importer"
	"github.com/scrypster/kindred/internal/notify"
	"github.com/scrypster/kindred/pkg/types"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		fromSheet  bool
		noSnapshot bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Save a tree file or the configured sheet into storage",
		Long: `Import reads a CSV, TSV or YAML tree file (or, with --sheet, the configured
Google Sheet) and replaces the tree held in storage. With the SQLite engine
the previous tree is snapshotted first (see "kindred snapshot"). A server
running with KINDRED_SOURCE=store on the same data path reloads automatically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromSheet == (len(args) == 1) {
				return fmt.Errorf("import needs either a file argument or --sheet")
			}
			ctx := cmd.Context()

			var (
				rows  []types.Row
				label string
				err   error
			)
			if fromSheet {
				if a.cfg.Source.SheetID == "" {
					return fmt.Errorf("import --sheet: KINDRED_SHEET_ID is not set")
				}
				a.cfg.Source.Kind = config.SourceSheets
				a.cfg.Source.Mirror = false
				var source importer.Source
				source, label, err = a.buildSource(ctx, nil)
				if err != nil {
					return err
				}
				rows, err = source.Rows(ctx)
			} else {
				label = args[0]
				rows, err = importer.LoadFile(args[0], a.cfg.Source.SkipHeader)
			}
			if err != nil {
				return err
			}

			_, report := graph.FromRows(rows, a.logger.Named("graph"))

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if !noSnapshot {
				snap, err := a.snapshotStore(ctx, store)
				if err != nil {
					return fmt.Errorf("snapshot previous tree: %w", err)
				}
				if snap != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "previous tree saved to %s\n", snap.Path)
				}
			}

			rec, err := store.SaveRows(ctx, rows, label)
			if err != nil {
				return err
			}

			if a.cfg.Storage.StorageEngine == config.EngineSQLite {
				if err := notify.NewEventWriter(a.cfg.Storage.DataPath).Notify(notify.EventTreeImported, rec.ID); err != nil {
					a.logger.Warn("failed to notify running servers", zap.Error(err))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows from %s (%s)\n", rec.RowCount, label, rec.ID)
			if n := len(report.Unresolved); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %d references to people not in the tree\n", n)
			}
			if n := len(report.Duplicates); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %d duplicate names\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromSheet, "sheet", false, "import from the configured Google Sheet")
	cmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "do not snapshot the previous tree before replacing it")
	return cmd
}
