// Package storage persists the raw family tree so a session can start
// without reaching the spreadsheet. Only source rows are stored; derived
// relationships are always recomputed.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scrypster/kindred/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// ImportRecord describes one SaveRows call.
type ImportRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	RowCount   int       `json:"row_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// TreeStore stores the rows of a single family tree.
type TreeStore interface {
	// SaveRows replaces the stored tree with rows, keeping their order.
	// source is a free-form label (file path, sheet id) kept with the import.
	SaveRows(ctx context.Context, rows []types.Row, source string) (*ImportRecord, error)

	// LoadRows returns the stored rows in their original order. An empty
	// store returns an empty slice, not an error.
	LoadRows(ctx context.Context) ([]types.Row, error)

	// LastImport returns the most recent import, or ErrNotFound.
	LastImport(ctx context.Context) (*ImportRecord, error)

	// Close releases any resources held by the store.
	Close() error
}

// ValidateRows rejects rows that cannot be stored. Rows without a name are
// invalid here even though the graph builder would silently drop them.
func ValidateRows(rows []types.Row) error {
	for i, r := range rows {
		if r.Name == "" {
			return &RowError{Index: i, Err: ErrInvalidInput}
		}
	}
	return nil
}

// RowError points at the offending row of a batch.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: name is required: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
