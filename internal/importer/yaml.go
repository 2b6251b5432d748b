package importer

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/scrypster/kindred/pkg/types"
)

// yamlTree is the document form of a tree file:
//
//	people:
//	  - name: Bob
//	    mother: Alice
//	    blurb: Likes boats.
//
// A bare top-level list of people is accepted too.
type yamlTree struct {
	People []types.Row `yaml:"people"`
}

// ReadYAML parses a YAML tree file into normalized rows.
func ReadYAML(r io.Reader) ([]types.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("importer: read yaml: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '-' {
		var people []types.Row
		if err := yaml.Unmarshal(data, &people); err != nil {
			return nil, fmt.Errorf("importer: parse yaml list: %w", err)
		}
		return NormalizeRows(people), nil
	}

	var tree yamlTree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("importer: parse yaml: %w", err)
	}
	return NormalizeRows(tree.People), nil
}

// WriteYAML writes rows in the document form ReadYAML accepts.
func WriteYAML(w io.Writer, rows []types.Row) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlTree{People: rows}); err != nil {
		return fmt.Errorf("importer: write yaml: %w", err)
	}
	return enc.Close()
}
