package importer

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/scrypster/kindred/pkg/types"
)

// DefaultSheetRange is the block of the "Tree" tab holding the five
// columns name, mother, father, spouse, blurb.
const DefaultSheetRange = "Tree!B4:F100"

// SheetsConfig identifies the spreadsheet holding the tree.
type SheetsConfig struct {
	SpreadsheetID string
	Range         string

	// CredentialsFile is a service account key. When empty, APIKey is used.
	CredentialsFile string
	APIKey          string
}

// SheetsSource reads tree rows from the Google Sheets values API using
// read-only access.
type SheetsSource struct {
	service *sheets.Service
	id      string
	rng     string
}

// NewSheetsSource creates a Sheets client. Extra client options are
// appended after the credential options, which lets tests point the client
// at a local endpoint.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig, extra ...option.ClientOption) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("importer: spreadsheet id is required")
	}
	if cfg.Range == "" {
		cfg.Range = DefaultSheetRange
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("importer: create sheets client: %w", err)
	}
	return &SheetsSource{service: svc, id: cfg.SpreadsheetID, rng: cfg.Range}, nil
}

// Rows implements Source.
func (s *SheetsSource) Rows(ctx context.Context) ([]types.Row, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.id, s.rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("importer: fetch %s: %w", s.rng, err)
	}
	return RowsFromCells(cellsToStrings(resp.Values)), nil
}

// cellsToStrings converts the API's loosely typed cells to strings.
func cellsToStrings(values [][]interface{}) [][]string {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		rec := make([]string, 0, len(row))
		for _, cell := range row {
			switch v := cell.(type) {
			case nil:
				rec = append(rec, "")
			case string:
				rec = append(rec, v)
			default:
				rec = append(rec, fmt.Sprint(v))
			}
		}
		records = append(records, rec)
	}
	return records
}
