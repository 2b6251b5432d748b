package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// SkipHeader drops the first record.
	SkipHeader bool
}

// ReadCSV parses positional tree rows. Records may have any number of
// fields; missing trailing cells are empty and extra cells are ignored.
func ReadCSV(r io.Reader, opts CSVOptions) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	var records [][]string
	first := true
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: read csv: %w", err)
		}
		if first {
			first = false
			if opts.SkipHeader {
				continue
			}
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes records with a header line.
func WriteCSV(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "mother", "father", "spouse", "blurb"}); err != nil {
		return fmt.Errorf("importer: write csv header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("importer: write csv: %w", err)
	}
	return nil
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
