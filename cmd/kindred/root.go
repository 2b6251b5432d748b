package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/pkg/logger"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	envFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "kindred",
		Short: "Explore how everyone in a family tree is related",
		Long: `Kindred loads a family tree from a spreadsheet or tree file, computes how
every person relates to a selected person, and serves the result to the
tree renderer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "read KINDRED_* settings from this file (default: .env when present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(a),
		newRelateCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newSnapshotCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.LoadConfig(files...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logger.Init(cfg.Log.Env, cfg.Log.Level); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.Get()
	return nil
}
