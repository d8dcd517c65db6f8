package project

import (
	"testing"

	"github.com/matzehuels/graphweave/pkg/model"
)

func TestProjectRedirectsToCollapsedOwner(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "a1", Target: "out"},
		{ID: "e2", Source: "out", Target: "a2"},
	}
	owner := map[string]string{"a1": "meta:x", "a2": "meta:x"}

	got := Project(edges, owner)
	if len(got) != 2 {
		t.Fatalf("got %d edges, want 2", len(got))
	}
	if got[0].RenderSource != "meta:x" || got[0].RenderTarget != "out" {
		t.Errorf("e1 rendered %s -> %s, want meta:x -> out", got[0].RenderSource, got[0].RenderTarget)
	}
	if got[1].RenderSource != "out" || got[1].RenderTarget != "meta:x" {
		t.Errorf("e2 rendered %s -> %s, want out -> meta:x", got[1].RenderSource, got[1].RenderTarget)
	}
	if !got[0].Redirected() {
		t.Error("e1 should report as redirected")
	}
}

func TestTransformedEdgeEndpointFlags(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "a1", Target: "out"},
		{ID: "e2", Source: "out", Target: "a2"},
		{ID: "e3", Source: "out", Target: "far"},
	}
	owner := map[string]string{"a1": "meta:x", "a2": "meta:y"}

	got := Project(edges, owner)
	if len(got) != 3 {
		t.Fatalf("got %d edges, want 3", len(got))
	}
	if !got[0].SourceIsMeta() || got[0].TargetIsMeta() {
		t.Errorf("e1 flags = (%v, %v), want source-only", got[0].SourceIsMeta(), got[0].TargetIsMeta())
	}
	if got[1].SourceIsMeta() || !got[1].TargetIsMeta() {
		t.Errorf("e2 flags = (%v, %v), want target-only", got[1].SourceIsMeta(), got[1].TargetIsMeta())
	}
	if got[2].SourceIsMeta() || got[2].TargetIsMeta() || got[2].Redirected() {
		t.Errorf("e3 should report neither endpoint as meta")
	}
}

func TestProjectDropsInternalEdges(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "a1", Target: "a2"},
	}
	owner := map[string]string{"a1": "meta:x", "a2": "meta:x"}

	if got := Project(edges, owner); len(got) != 0 {
		t.Errorf("internal edge survived projection: %+v", got)
	}
}

func TestProjectDeduplicatesFirstWins(t *testing.T) {
	edges := []model.Edge{
		{ID: "e1", Source: "a1", Target: "out"},
		{ID: "e2", Source: "a2", Target: "out"},
		{ID: "e3", Source: "out", Target: "a1"},
	}
	owner := map[string]string{"a1": "meta:x", "a2": "meta:x"}

	got := Project(edges, owner)
	if len(got) != 2 {
		t.Fatalf("got %d edges, want 2 (e2 duplicates e1's rendered pair)", len(got))
	}
	if got[0].ID != "e1" {
		t.Errorf("kept %s for meta:x -> out, want first occurrence e1", got[0].ID)
	}
	// Opposite direction is a distinct rendered pair.
	if got[1].ID != "e3" {
		t.Errorf("kept %s for out -> meta:x, want e3", got[1].ID)
	}
}

func TestProjectNoOwnerPassthrough(t *testing.T) {
	edges := []model.Edge{{ID: "e1", Source: "a", Target: "b"}}
	got := Project(edges, nil)
	if len(got) != 1 || got[0].Redirected() {
		t.Errorf("got %+v, want passthrough of e1", got)
	}
	for _, e := range got {
		if e.RenderSource == e.RenderTarget {
			t.Errorf("edge %s renders onto itself", e.ID)
		}
	}
}
