package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphweave/pkg/engine"
	"github.com/matzehuels/graphweave/pkg/engine/crossing"
	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/engine/project"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

func testInput() (*model.Graph, *pipeline.Result) {
	g := model.Build(
		[]model.Node{
			{ID: "a", Label: "Alice"},
			{ID: "b"},
			{ID: "ghost", Stub: true},
		},
		[]model.Edge{
			{ID: "e1", Source: "a", Target: "b", Label: "knows"},
			{ID: "e2", Source: "a", Target: "ghost"},
		},
	)
	result := &pipeline.Result{
		Positions: map[string]engine.Vec{
			"a":     {X: 100, Y: 100},
			"b":     {X: 300, Y: 100},
			"ghost": {X: 200, Y: 300},
		},
		Edges: []project.TransformedEdge{
			{ID: "e1", Source: "a", Target: "b", RenderSource: "a", RenderTarget: "b"},
			{ID: "e2", Source: "a", Target: "ghost", RenderSource: "a", RenderTarget: "ghost"},
		},
	}
	return g, result
}

func TestToDOTPinnedPositions(t *testing.T) {
	g, result := testInput()
	dot := ToDOT(g, result, Options{})

	for _, want := range []string{
		"layout=neato",
		`"a" [label="Alice", pos="100.0,100.0!"]`,
		`"a" -- "b";`,
		`"a" -- "ghost";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("stub node not rendered dashed")
	}
}

func TestToDOTMetaNodes(t *testing.T) {
	g, result := testInput()
	result.MetaNodes = []group.MetaNode{{
		ID: "meta:0:dept:x", Attribute: "dept", Value: "x",
		ChildNodeIDs: []string{"a", "b"}, Collapsed: true,
	}}
	result.MetaPositions = map[string]engine.Vec{"meta:0:dept:x": {X: 50, Y: 50}}

	dot := ToDOT(g, result, Options{})
	if !strings.Contains(dot, `label="dept: x (2)"`) {
		t.Errorf("meta-node label missing member count:\n%s", dot)
	}
	if !strings.Contains(dot, "peripheries=2") {
		t.Error("meta-node not double-bordered")
	}
}

func TestToDOTEdgeLabelsAndHops(t *testing.T) {
	g, result := testInput()
	result.Hops = map[string][]crossing.Hop{
		"e1": {{
			Before: engine.Vec{X: 190, Y: 100},
			Peak:   engine.Vec{X: 200, Y: 112},
			After:  engine.Vec{X: 210, Y: 100},
		}},
	}

	dot := ToDOT(g, result, Options{EdgeLabels: true, ShowHops: true})
	if !strings.Contains(dot, `label="knows"`) {
		t.Errorf("edge label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `comment="190.0,100.0 200.0,112.0 210.0,100.0"`) {
		t.Errorf("hop comment missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="4in" height="3in" viewBox="10.00 -20.00 400.00 300.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 400.00 300.00"`) {
		t.Errorf("view box not normalized: %s", got)
	}
	if !strings.Contains(got, `width="400" height="300"`) {
		t.Errorf("pixel dimensions missing: %s", got)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	svg := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(svg); string(got) != string(svg) {
		t.Errorf("SVG without view box was modified: %s", got)
	}
}
