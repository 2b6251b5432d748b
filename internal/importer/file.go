package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scrypster/kindred/pkg/types"
)

// FileSource reads a tree file from disk each time Rows is called. The
// format is chosen by extension: .csv, .tsv, .yaml or .yml.
type FileSource struct {
	Path string

	// SkipHeader drops the first CSV/TSV record.
	SkipHeader bool
}

// Rows implements Source.
func (f FileSource) Rows(ctx context.Context) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path, f.SkipHeader)
}

// LoadFile reads and parses the tree file at path.
func LoadFile(path string, skipHeader bool) ([]types.Row, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", path, err)
	}
	defer file.Close()

	switch ext {
	case ".yaml", ".yml":
		return ReadYAML(file)
	}

	opts := CSVOptions{SkipHeader: skipHeader}
	if ext == ".tsv" {
		opts.Comma = '\t'
	}
	records, err := ReadCSV(file, opts)
	if err != nil {
		return nil, err
	}
	return RowsFromCells(records), nil
}
