package group

import (
	"reflect"
	"testing"

	"github.com/matzehuels/graphweave/pkg/model"
)

func attr(name string, values ...string) model.Attribute {
	return model.Attribute{Name: name, Values: values}
}

func deptNodes() []model.Node {
	return []model.Node{
		{ID: "A", Attributes: []model.Attribute{attr("dept", "x")}},
		{ID: "B", Attributes: []model.Attribute{attr("dept", "x")}},
		{ID: "C", Attributes: []model.Attribute{attr("dept", "y")}},
	}
}

func TestGenerateDisabled(t *testing.T) {
	if got := Generate(deptNodes(), Config{Enabled: false, Layers: []Layer{{Attribute: "dept"}}}); got != nil {
		t.Errorf("disabled config produced %d meta-nodes, want none", len(got))
	}
}

func TestGenerateSingleLayer(t *testing.T) {
	cfg := Config{Enabled: true, Layers: []Layer{{Attribute: "dept"}}}
	metas := Generate(deptNodes(), cfg)

	if len(metas) != 1 {
		t.Fatalf("got %d meta-nodes, want 1 (singleton bucket y must be dropped)", len(metas))
	}
	m := metas[0]
	if m.Value != "x" || m.Layer != 0 {
		t.Errorf("meta-node = %+v, want layer 0 value x", m)
	}
	if !reflect.DeepEqual(m.ChildNodeIDs, []string{"A", "B"}) {
		t.Errorf("children = %v, want [A B]", m.ChildNodeIDs)
	}
}

func TestGenerateAmbiguousAndMissingExcluded(t *testing.T) {
	nodes := []model.Node{
		{ID: "A", Attributes: []model.Attribute{attr("dept", "x")}},
		{ID: "B", Attributes: []model.Attribute{attr("dept", "x")}},
		{ID: "amb", Attributes: []model.Attribute{attr("dept", "x", "y")}},
		{ID: "none"},
		{ID: "empty", Attributes: []model.Attribute{attr("dept", "")}},
	}
	cfg := Config{Enabled: true, Layers: []Layer{{Attribute: "dept"}}}
	metas := Generate(nodes, cfg)

	if len(metas) != 1 {
		t.Fatalf("got %d meta-nodes, want 1", len(metas))
	}
	if !reflect.DeepEqual(metas[0].ChildNodeIDs, []string{"A", "B"}) {
		t.Errorf("children = %v, want [A B]: ambiguous and missing nodes must be excluded", metas[0].ChildNodeIDs)
	}
}

func TestGenerateDuplicateValuesNotAmbiguous(t *testing.T) {
	// Repeated identical values still count as one distinct value.
	nodes := []model.Node{
		{ID: "A", Attributes: []model.Attribute{attr("dept", "x", "x")}},
		{ID: "B", Attributes: []model.Attribute{attr("dept", "x")}},
	}
	cfg := Config{Enabled: true, Layers: []Layer{{Attribute: "dept"}}}
	metas := Generate(nodes, cfg)
	if len(metas) != 1 || len(metas[0].ChildNodeIDs) != 2 {
		t.Fatalf("got %+v, want one meta-node with both nodes", metas)
	}
}

func nestedNodes() []model.Node {
	mk := func(id, dept, org string) model.Node {
		return model.Node{ID: id, Attributes: []model.Attribute{attr("dept", dept), attr("org", org)}}
	}
	return []model.Node{
		mk("a1", "x", "acme"), mk("a2", "x", "acme"),
		mk("b1", "y", "acme"), mk("b2", "y", "acme"),
		mk("c1", "z", "globex"), mk("c2", "z", "globex"),
	}
}

func TestGenerateNestedLayers(t *testing.T) {
	cfg := Config{Enabled: true, Layers: []Layer{
		{Attribute: "dept"},
		{Attribute: "org"},
	}}
	metas := Generate(nestedNodes(), cfg)

	var layer0, layer1 []MetaNode
	for _, m := range metas {
		switch m.Layer {
		case 0:
			layer0 = append(layer0, m)
		case 1:
			layer1 = append(layer1, m)
		}
	}
	if len(layer0) != 3 {
		t.Fatalf("layer 0: got %d meta-nodes, want 3", len(layer0))
	}
	if len(layer1) != 1 {
		t.Fatalf("layer 1: got %d meta-nodes, want 1 (globex bucket has a single member)", len(layer1))
	}

	org := layer1[0]
	if org.Value != "acme" {
		t.Errorf("layer 1 value = %q, want acme", org.Value)
	}
	if !reflect.DeepEqual(org.ChildNodeIDs, []string{"a1", "a2", "b1", "b2"}) {
		t.Errorf("layer 1 node children = %v, want union of dept x and y", org.ChildNodeIDs)
	}
	if len(org.ChildMetaIDs) != 2 {
		t.Errorf("layer 1 meta children = %v, want the two dept meta-nodes", org.ChildMetaIDs)
	}
}

func TestGenerateEmptyLayerStopsCascade(t *testing.T) {
	cfg := Config{Enabled: true, Layers: []Layer{
		{Attribute: "missing"},
		{Attribute: "dept"},
	}}
	metas := Generate(deptNodes(), cfg)
	if len(metas) != 0 {
		t.Errorf("got %d meta-nodes, want 0: an empty layer skips downstream layers", len(metas))
	}
}

func TestGenerateIdempotent(t *testing.T) {
	cfg := Config{Enabled: true, Layers: []Layer{
		{Attribute: "dept"},
		{Attribute: "org"},
	}}
	first := Generate(nestedNodes(), cfg)
	second := Generate(nestedNodes(), cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated generation differs:\n%+v\n%+v", first, second)
	}
}

func TestGenerateSiblingExclusivity(t *testing.T) {
	cfg := Config{Enabled: true, Layers: []Layer{{Attribute: "dept"}}}
	metas := Generate(nestedNodes(), cfg)

	seen := make(map[string]string)
	for _, m := range metas {
		if len(m.ChildNodeIDs) < 2 {
			t.Errorf("meta-node %s has %d children, want >= 2", m.ID, len(m.ChildNodeIDs))
		}
		for _, id := range m.ChildNodeIDs {
			if prev, ok := seen[id]; ok {
				t.Errorf("node %s appears in sibling meta-nodes %s and %s", id, prev, m.ID)
			}
			seen[id] = m.ID
		}
	}
}
