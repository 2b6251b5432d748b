package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/backup"
	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/notify"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Create, list and restore snapshots of the SQLite tree",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if a.cfg.Storage.StorageEngine != config.EngineSQLite {
				return fmt.Errorf("snapshots need the sqlite storage engine, not %q", a.cfg.Storage.StorageEngine)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newSnapshotCreateCmd(a),
		newSnapshotListCmd(a),
		newSnapshotRestoreCmd(a),
	)
	return cmd
}

func newSnapshotCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Snapshot the stored tree now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := a.snapshotStore(cmd.Context(), store)
			if err != nil {
				return err
			}
			if info == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to snapshot")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Path)
			return nil
		},
	}
}

func newSnapshotListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := backup.List(a.cfg.Storage.SnapshotDir())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tCREATED\tSIZE")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Path, s.Timestamp.Format(time.RFC3339), s.Size)
			}
			return tw.Flush()
		},
	}
}

func newSnapshotRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <snapshot>",
		Short: "Replace the stored tree with a snapshot",
		Long: `Restore verifies the snapshot and copies it over the SQLite tree database.
No other process may have the database open for writing while it runs.
Servers reading from the store are told to reload afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := backup.Restore(args[0], a.cfg.Storage.SQLitePath()); err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.LastImport(cmd.Context())
			if err != nil {
				return fmt.Errorf("restored snapshot has no import record: %w", err)
			}
			if err := notify.NewEventWriter(a.cfg.Storage.DataPath).Notify(notify.EventTreeImported, rec.ID); err != nil {
				a.logger.Warn("failed to notify running servers", zap.Error(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "restored %d rows from %s (%s)\n", rec.RowCount, rec.Source, rec.ID)
			return nil
		},
	}
}
