package importer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/pkg/types"
)

// StoreSource serves the rows last saved to a TreeStore.
type StoreSource struct {
	Store storage.TreeStore
}

// Rows implements Source.
func (s StoreSource) Rows(ctx context.Context) ([]types.Row, error) {
	rows, err := s.Store.LoadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("importer: load stored rows: %w", err)
	}
	return NormalizeRows(rows), nil
}

// MirrorSource reads from Primary and saves every successful fetch to Store.
// When Primary fails, the last saved tree is served instead, provided one
// exists.
type MirrorSource struct {
	Primary Source
	Store   storage.TreeStore

	// Label is recorded with each import, e.g. the sheet id or file path.
	Label  string
	Logger *zap.Logger
}

// Rows implements Source.
func (m MirrorSource) Rows(ctx context.Context) ([]types.Row, error) {
	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rows, err := m.Primary.Rows(ctx)
	if err == nil {
		if _, saveErr := m.Store.SaveRows(ctx, rows, m.Label); saveErr != nil {
			logger.Warn("importer: failed to mirror rows", zap.String("source", m.Label), zap.Error(saveErr))
		}
		return rows, nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	stored, loadErr := m.Store.LoadRows(ctx)
	if loadErr != nil || len(stored) == 0 {
		return nil, err
	}

	logger.Warn("importer: primary source failed, serving stored tree",
		zap.String("source", m.Label),
		zap.Int("rows", len(stored)),
		zap.Error(err))
	return NormalizeRows(stored), nil
}
