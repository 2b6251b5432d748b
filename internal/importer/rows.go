// Package importer reads raw family tree rows from the places they live:
// CSV and YAML files on disk and the Google Sheets values API.
//
// Every source yields rows already normalized: cells trimmed, short rows
// padded, and rows without a name dropped.
package importer

import (
	"context"
	"errors"

	"github.com/scrypster/kindred/pkg/types"
)

// ErrUnsupportedFormat indicates a file extension no reader understands.
var ErrUnsupportedFormat = errors.New("unsupported tree file format")

// Source supplies the raw rows of a family tree.
type Source interface {
	Rows(ctx context.Context) ([]types.Row, error)
}

// RowsFromCells converts positional records into normalized rows.
func RowsFromCells(records [][]string) []types.Row {
	rows := make([]types.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, types.RowFromCells(rec))
	}
	return NormalizeRows(rows)
}

// NormalizeRows drops rows without a name. Rows are otherwise kept in order.
func NormalizeRows(rows []types.Row) []types.Row {
	out := rows[:0:0]
	for _, r := range rows {
		r = types.RowFromCells(r.Cells())
		if r.Name == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
