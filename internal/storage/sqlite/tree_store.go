// Package sqlite implements storage.TreeStore on an embedded SQLite
// database using the CGO-free modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scrypster/kindred/internal/storage"
	"github.com/scrypster/kindred/pkg/types"
)

// TreeStore implements storage.TreeStore using SQLite.
type TreeStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ storage.TreeStore = (*TreeStore)(nil)

// NewTreeStore opens (or creates) the database at dsn. If the first open
// fails because of stale WAL files left by a crashed process, those files
// are removed and the open is retried once.
func NewTreeStore(dsn string, logger *zap.Logger) (*TreeStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := openTreeStore(dsn, logger)
	if err == nil {
		return store, nil
	}

	if !isRecoverableWALError(err) {
		return nil, err
	}

	dbPath := dbPathFromDSN(dsn)
	if dbPath == "" || !isWALStale(dbPath) {
		return nil, err
	}

	removed := removeStaleWAL(dbPath, logger)

	store, retryErr := openTreeStore(dsn, logger)
	if retryErr != nil {
		return nil, fmt.Errorf("failed after WAL recovery: %w (original: %v)", retryErr, err)
	}

	logger.Info("sqlite: recovered from stale WAL files", zap.String("path", dbPath), zap.Int("removed", removed))
	return store, nil
}

// openTreeStore opens a SQLite database, configures WAL mode, and creates the schema.
func openTreeStore(dsn string, logger *zap.Logger) (*TreeStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &TreeStore{db: db, logger: logger}, nil
}

// GetDB returns the underlying database connection.
func (s *TreeStore) GetDB() *sql.DB {
	return s.db
}

// SaveRows implements storage.TreeStore.
func (s *TreeStore) SaveRows(ctx context.Context, rows []types.Row, source string) (*storage.ImportRecord, error) {
	if err := storage.ValidateRows(rows); err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tree_rows`); err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tree_rows (position, name, mother, father, spouse, blurb)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, i, r.Name, r.Mother, r.Father, r.Spouse, r.Blurb); err != nil {
			return nil, fmt.Errorf("sqlite: SaveRows: insert %q: %w", r.Name, err)
		}
	}

	record := &storage.ImportRecord{
		ID:         "imp:" + uuid.New().String(),
		Source:     source,
		RowCount:   len(rows),
		ImportedAt: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, row_count, imported_at) VALUES (?, ?, ?, ?)
	`, record.ID, record.Source, record.RowCount, record.ImportedAt); err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: SaveRows: commit: %w", err)
	}

	s.logger.Info("sqlite: tree saved", zap.String("import_id", record.ID), zap.Int("rows", record.RowCount))
	return record, nil
}

// LoadRows implements storage.TreeStore.
func (s *TreeStore) LoadRows(ctx context.Context) ([]types.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, mother, father, spouse, blurb
		FROM tree_rows
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: LoadRows: %w", err)
	}
	defer rows.Close()

	out := make([]types.Row, 0)
	for rows.Next() {
		var r types.Row
		if err := rows.Scan(&r.Name, &r.Mother, &r.Father, &r.Spouse, &r.Blurb); err != nil {
			return nil, fmt.Errorf("sqlite: LoadRows scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: LoadRows: %w", err)
	}
	return out, nil
}

// LastImport implements storage.TreeStore.
func (s *TreeStore) LastImport(ctx context.Context) (*storage.ImportRecord, error) {
	var rec storage.ImportRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, row_count, imported_at
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.Source, &rec.RowCount, &rec.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: LastImport: %w", err)
	}
	return &rec, nil
}

// Close checkpoints the WAL and closes the database so another process can
// open it without stale WAL state.
func (s *TreeStore) Close() error {
	if s.db == nil {
		return nil
	}

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		s.logger.Warn("sqlite: WAL checkpoint on close failed (non-fatal)", zap.Error(err))
	}

	return s.db.Close()
}
