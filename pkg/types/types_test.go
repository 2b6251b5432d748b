package types_test

import (
	"encoding/json"
	"testing"

	"github.com/scrypster/kindred/pkg/types"
)

func TestRowFromCells(t *testing.T) {
	row := types.RowFromCells([]string{" Carol ", "Alice", "Bob"})
	want := types.Row{Name: "Carol", Mother: "Alice", Father: "Bob"}
	if row != want {
		t.Errorf("RowFromCells() = %+v, want %+v", row, want)
	}

	long := types.RowFromCells([]string{"Dan", "", "", "Eve", "Tall", "ignored"})
	if long.Spouse != "Eve" || long.Blurb != "Tall" {
		t.Errorf("extra cells must be ignored, got %+v", long)
	}

	if got := len(long.Cells()); got != types.RowWidth {
		t.Errorf("Cells() has %d entries, want %d", got, types.RowWidth)
	}
}

func TestRowLink(t *testing.T) {
	row := types.Row{Name: "Carol", Mother: "Alice", Father: "Bob", Spouse: "Dan"}
	tests := map[types.LinkType]string{
		types.LinkMother:  "Alice",
		types.LinkFather:  "Bob",
		types.LinkSpouse:  "Dan",
		types.LinkType(9): "",
	}
	for lt, want := range tests {
		if got := row.Link(lt); got != want {
			t.Errorf("Link(%v) = %q, want %q", lt, got, want)
		}
	}
}

func TestLinkTypeNames(t *testing.T) {
	for _, lt := range []types.LinkType{types.LinkMother, types.LinkFather, types.LinkSpouse} {
		parsed, err := types.ParseLinkType(lt.String())
		if err != nil || parsed != lt {
			t.Errorf("ParseLinkType(%q) = %v, %v", lt.String(), parsed, err)
		}
	}

	if !types.LinkMother.IsParental() || !types.LinkFather.IsParental() || types.LinkSpouse.IsParental() {
		t.Error("only mother and father links are parental")
	}
	if types.LinkType(7).Valid() {
		t.Error("LinkType(7) must be invalid")
	}
	if _, err := types.ParseLinkType("cousin"); err == nil {
		t.Error("expected error for unknown link type")
	}
	if _, err := json.Marshal(types.Edge{Type: types.LinkType(7)}); err == nil {
		t.Error("expected error marshalling an invalid link type")
	}
}

func TestEdgeEndpoints(t *testing.T) {
	e := types.Edge{Source: "Alice", Target: "Carol", Type: types.LinkMother}

	if !e.Touches("Alice") || !e.Touches("Carol") || e.Touches("Bob") {
		t.Errorf("Touches wrong for %+v", e)
	}
	if other, ok := e.Other("Carol"); !ok || other != "Alice" {
		t.Errorf("Other(Carol) = %q, %v", other, ok)
	}
	if _, ok := e.Other("Bob"); ok {
		t.Error("Other(Bob) must report false")
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"source":"Alice","target":"Carol","type":"mother"}` {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestRelationshipTags(t *testing.T) {
	if len(types.AllRelationships) != 11 {
		t.Fatalf("expected 11 relationships, got %d", len(types.AllRelationships))
	}
	for i, r := range types.AllRelationships {
		if int(r) != i {
			t.Errorf("%v has value %d, want %d", r, int(r), i)
		}
		parsed, err := types.ParseRelationship(r.String())
		if err != nil || parsed != r {
			t.Errorf("ParseRelationship(%q) = %v, %v", r.String(), parsed, err)
		}
	}

	if types.RelAuntUncle.String() != "aunt-uncle" {
		t.Errorf("RelAuntUncle = %q", types.RelAuntUncle.String())
	}
	if types.Relationship(42).Valid() {
		t.Error("Relationship(42) must be invalid")
	}

	var r types.Relationship
	if err := json.Unmarshal([]byte(`"great-grandchild"`), &r); err != nil || r != types.RelGreatGrandchild {
		t.Errorf("unmarshal great-grandchild = %v, %v", r, err)
	}
	if err := json.Unmarshal([]byte(`"second-cousin"`), &r); err == nil {
		t.Error("expected error for unknown relationship")
	}
}
