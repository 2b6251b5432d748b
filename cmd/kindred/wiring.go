package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/backup"
	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/importer"
	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/internal/storage/postgres"
	"github.com/scrypster/kindred/internal/storage/sqlite"
)

// openStore opens the configured TreeStore.
func (a *app) openStore() (storage.TreeStore, error) {
	switch a.cfg.Storage.StorageEngine {
	case config.EnginePostgres:
		return postgres.NewTreeStore(a.cfg.Storage.PostgresDSN, a.logger.Named("postgres"))
	default:
		if err := os.MkdirAll(a.cfg.Storage.DataPath, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		return sqlite.NewTreeStore(a.cfg.Storage.SQLitePath(), a.logger.Named("sqlite"))
	}
}

// needsStore reports whether the configured source reads or writes storage.
func (a *app) needsStore() bool {
	return a.cfg.Source.Kind == config.SourceStore || a.cfg.Source.Mirror
}

// buildSource assembles the configured row source. store may be nil when
// needsStore is false.
func (a *app) buildSource(ctx context.Context, store storage.TreeStore) (importer.Source, string, error) {
	src := a.cfg.Source
	var (
		source importer.Source
		label  string
	)

	switch src.Kind {
	case config.SourceStore:
		return importer.StoreSource{Store: store}, "store", nil

	case config.SourceSheets:
		sheets, err := importer.NewSheetsSource(ctx, importer.SheetsConfig{
			SpreadsheetID:   src.SheetID,
			Range:           src.SheetRange,
			CredentialsFile: src.CredentialsFile,
			APIKey:          src.APIKey,
		})
		if err != nil {
			return nil, "", err
		}
		source = importer.NewBreaker("sheets", sheets, importer.BreakerConfig{
			MaxFailures: uint32(src.BreakerFailures),
			Timeout:     src.BreakerTimeout,
		})
		label = "sheet:" + src.SheetID

	default:
		source = importer.FileSource{Path: src.Path, SkipHeader: src.SkipHeader}
		label = src.Path
	}

	if src.Mirror && store != nil {
		source = importer.MirrorSource{
			Primary: source,
			Store:   store,
			Label:   label,
			Logger:  a.logger.Named("mirror"),
		}
	}
	return source, label, nil
}

// loadGraph fetches rows from source and builds the family graph.
func (a *app) loadGraph(ctx context.Context, source importer.Source) (*graph.Graph, graph.BuildReport, error) {
	rows, err := source.Rows(ctx)
	if err != nil {
		return nil, graph.BuildReport{}, fmt.Errorf("load tree: %w", err)
	}
	g, report := graph.FromRows(rows, a.logger.Named("graph"))
	return g, report, nil
}

func (a *app) engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.CacheSize = a.cfg.Engine.CacheSize
	return cfg
}

// snapshotStore copies the SQLite tree into the snapshot directory and prunes
// old snapshots. It returns nil when there is nothing to snapshot: another
// engine, snapshots disabled, or an empty store.
func (a *app) snapshotStore(ctx context.Context, store storage.TreeStore) (*backup.Info, error) {
	sq, ok := store.(*sqlite.TreeStore)
	if !ok || a.cfg.Storage.SnapshotKeep == 0 {
		return nil, nil
	}
	if _, err := store.LastImport(ctx); errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	dir := a.cfg.Storage.SnapshotDir()
	info, err := backup.Snapshot(ctx, sq.GetDB(), dir)
	if err != nil {
		return nil, err
	}

	removed, err := backup.Prune(dir, a.cfg.Storage.SnapshotKeep)
	if err != nil {
		a.logger.Warn("failed to prune snapshots", zap.Error(err))
	} else if len(removed) > 0 {
		a.logger.Debug("pruned snapshots", zap.Int("removed", len(removed)))
	}
	return info, nil
}
