package types

import "strings"

// Person is a node in the family tree. Name is the identity key.
type Person struct {
	Name  string `json:"name"`
	Blurb string `json:"blurb,omitempty"`
}

// Column positions of a raw tree row.
const (
	ColName = iota
	ColMother
	ColFather
	ColSpouse
	ColBlurb

	// RowWidth is the number of meaningful cells in a raw row.
	RowWidth
)

// Row is one raw record of the tree source: [name, mother, father, spouse, blurb].
// Empty strings mean "not given".
type Row struct {
	Name   string `json:"name" yaml:"name"`
	Mother string `json:"mother,omitempty" yaml:"mother,omitempty"`
	Father string `json:"father,omitempty" yaml:"father,omitempty"`
	Spouse string `json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Blurb  string `json:"blurb,omitempty" yaml:"blurb,omitempty"`
}

// RowFromCells builds a Row from positional cells. Missing trailing cells are
// treated as empty and cells past the blurb column are ignored.
func RowFromCells(cells []string) Row {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return Row{
		Name:   cell(ColName),
		Mother: cell(ColMother),
		Father: cell(ColFather),
		Spouse: cell(ColSpouse),
		Blurb:  cell(ColBlurb),
	}
}

// Cells returns the row in positional form.
func (r Row) Cells() []string {
	return []string{r.Name, r.Mother, r.Father, r.Spouse, r.Blurb}
}

// Link returns the relative named in the column that produces a link of type t.
func (r Row) Link(t LinkType) string {
	switch t {
	case LinkMother:
		return r.Mother
	case LinkFather:
		return r.Father
	case LinkSpouse:
		return r.Spouse
	}
	return ""
}
