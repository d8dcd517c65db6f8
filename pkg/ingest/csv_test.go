package ingest

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphweave/pkg/errors"
)

func TestReadCSVBasic(t *testing.T) {
	input := `id,name,dept,reports_to
alice,Alice,engineering,carol
bob,Bob,engineering,carol
carol,Carol,management,
`
	doc, err := ReadCSV(strings.NewReader(input), Options{
		IDColumn:    "id",
		LabelColumn: "name",
		LinkColumns: []string{"reports_to"},
	})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if len(doc.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(doc.Nodes))
	}
	if len(doc.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(doc.Edges))
	}

	alice := doc.Nodes[0]
	if alice.ID != "alice" || alice.Label != "Alice" {
		t.Errorf("first node = %+v", alice)
	}
	if got := alice.AttrValues("dept"); len(got) != 1 || got[0] != "engineering" {
		t.Errorf("dept = %v, want [engineering]", got)
	}
	// The link column must not leak into attributes.
	if got := alice.AttrValues("reports_to"); got != nil {
		t.Errorf("link column stored as attribute: %v", got)
	}

	e := doc.Edges[0]
	if e.Source != "alice" || e.Target != "carol" || e.Label != "reports_to" {
		t.Errorf("edge = %+v", e)
	}
}

func TestReadCSVStubForUnknownLink(t *testing.T) {
	input := `id,knows
a,ghost
`
	doc, err := ReadCSV(strings.NewReader(input), Options{LinkColumns: []string{"knows"}})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	var stub bool
	for _, n := range doc.Nodes {
		if n.ID == "ghost" {
			stub = n.Stub
		}
	}
	if !stub {
		t.Errorf("unresolved link target missing stub node: %+v", doc.Nodes)
	}
	if len(doc.Edges) != 1 {
		t.Errorf("got %d edges, want 1 to the stub", len(doc.Edges))
	}
}

func TestReadCSVMultiValueCells(t *testing.T) {
	input := `id,tags,knows
a,red; blue ;;red,b;c
b,,
c,,
`
	doc, err := ReadCSV(strings.NewReader(input), Options{LinkColumns: []string{"knows"}})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	a := doc.Nodes[0]
	got := a.AttrValues("tags")
	if len(got) != 3 {
		t.Errorf("tags = %v, want 3 raw values (dedup is grouping's job)", got)
	}
	if len(doc.Edges) != 2 {
		t.Errorf("got %d edges, want 2 from the multi-value link cell", len(doc.Edges))
	}
}

func TestReadCSVDuplicateIDFirstWins(t *testing.T) {
	input := `id,dept
a,x
a,y
`
	doc, err := ReadCSV(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(doc.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(doc.Nodes))
	}
	if got := doc.Nodes[0].AttrValues("dept"); len(got) != 1 || got[0] != "x" {
		t.Errorf("dept = %v, want first row's [x]", got)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		code  errors.Code
	}{
		{"empty input", "", Options{}, errors.ErrCodeInvalidInput},
		{"unknown id column", "a,b\n1,2\n", Options{IDColumn: "nope"}, errors.ErrCodeInvalidColumn},
		{"unknown link column", "a,b\n1,2\n", Options{LinkColumns: []string{"nope"}}, errors.ErrCodeInvalidColumn},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input), tc.opts)
			if err == nil {
				t.Fatal("ReadCSV succeeded, want error")
			}
			if !errors.Is(err, tc.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tc.code)
			}
		})
	}
}
