package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/graph"
	"github.com/scrypster/kindred/internal/notify"
	"github.com/scrypster/kindred/internal/server"
	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/web/handlers"
)

func newServeCmd(a *app) *cobra.Command {
	var focal string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree API, websocket events and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, focal)
		},
	}
	cmd.Flags().StringVar(&focal, "select", "", "person selected at startup")
	return cmd
}

func (a *app) serve(ctx context.Context, focal string) error {
	logger := a.logger

	var store storage.TreeStore
	if a.needsStore() {
		s, err := a.openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	source, label, err := a.buildSource(ctx, store)
	if err != nil {
		return err
	}

	g, _, err := a.loadGraph(ctx, source)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(g, a.engineConfig(), logger.Named("engine"))
	if err != nil {
		return err
	}
	if focal != "" {
		if _, err := eng.Select(focal); err != nil {
			return fmt.Errorf("select %q: %w", focal, err)
		}
	}

	reloader := &notify.Reloader{Source: source, Engine: eng, Logger: logger.Named("reload")}

	addr, hub, err := server.Start(ctx, server.Options{
		Config:   a.cfg,
		Engine:   eng,
		Reloader: reloader,
		Logger:   logger.Named("http"),
	})
	if err != nil {
		return err
	}
	reloader.SetOnReload(func(report graph.BuildReport) {
		hub.Publish(handlers.EventReload, report)
	})

	if a.cfg.Source.Kind == config.SourceFile && a.cfg.Source.Watch {
		tw := notify.NewTreeWatcher(a.cfg.Source.Path, reloader, logger.Named("watch"))
		if err := tw.Start(); err != nil {
			logger.Warn("tree file watching disabled", zap.Error(err))
		} else {
			defer tw.Stop()
		}
	}

	if a.cfg.Source.Kind == config.SourceStore && a.cfg.Storage.StorageEngine == config.EngineSQLite {
		ew := notify.NewEventWatcher(a.cfg.Storage.DataPath, func(evt notify.Event) {
			if evt.Type != notify.EventTreeImported {
				return
			}
			if _, err := reloader.Reload(ctx); err != nil {
				logger.Warn("reload after import failed", zap.String("import_id", evt.ImportID), zap.Error(err))
			}
		}, logger.Named("events"))
		if err := ew.Start(); err != nil {
			logger.Warn("import event watching disabled", zap.Error(err))
		} else {
			defer ew.Stop()
		}
	}

	logger.Info("kindred serving",
		zap.String("addr", "http://"+addr),
		zap.String("source", label),
		zap.Int("people", g.Len()))

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
