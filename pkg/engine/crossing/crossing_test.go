package crossing

import (
	"math"
	"testing"

	"github.com/matzehuels/graphweave/pkg/engine"
)

func TestDetectSingleCrossing(t *testing.T) {
	// Two diagonals of a square cross at (50, 50).
	segs := []Segment{
		{ID: "e-ac", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 100, Y: 100}},
		{ID: "e-bd", A: engine.Vec{X: 0, Y: 100}, B: engine.Vec{X: 100, Y: 0}},
	}
	hops := Detect(segs)

	if len(hops) != 1 {
		t.Fatalf("got hops for %d edges, want exactly 1", len(hops))
	}
	got, ok := hops["e-ac"]
	if !ok {
		t.Fatalf("crossing attributed to %v, want lexicographically smaller e-ac", hops)
	}
	if len(got) != 1 {
		t.Fatalf("got %d hops, want 1", len(got))
	}

	mid := got[0].Before.Add(got[0].After).Scale(0.5)
	if math.Abs(mid.X-50) > 1e-6 || math.Abs(mid.Y-50) > 1e-6 {
		t.Errorf("hop centered at (%v, %v), want (50, 50)", mid.X, mid.Y)
	}

	// The peak sits off the segment line.
	toPeak := got[0].Peak.Sub(mid)
	dir := segs[0].B.Sub(segs[0].A).Unit()
	if along := math.Abs(toPeak.Dot(dir)); along > 1e-6 {
		t.Errorf("peak offset has along-edge component %v, want perpendicular only", along)
	}
}

func TestDetectParallelSegments(t *testing.T) {
	segs := []Segment{
		{ID: "e1", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 100, Y: 0}},
		{ID: "e2", A: engine.Vec{X: 0, Y: 10}, B: engine.Vec{X: 100, Y: 10}},
		{ID: "e3", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 100, Y: 0}}, // coincident with e1
	}
	if hops := Detect(segs); hops != nil {
		t.Errorf("parallel/coincident segments produced hops: %v", hops)
	}
}

func TestDetectNonIntersectingLines(t *testing.T) {
	// The infinite lines cross but the segments do not reach.
	segs := []Segment{
		{ID: "e1", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 10, Y: 10}},
		{ID: "e2", A: engine.Vec{X: 100, Y: 0}, B: engine.Vec{X: 90, Y: 10}},
	}
	if hops := Detect(segs); hops != nil {
		t.Errorf("disjoint segments produced hops: %v", hops)
	}
}

func TestDetectHopsOrderedAlongEdge(t *testing.T) {
	// One long horizontal edge crossed by two verticals.
	segs := []Segment{
		{ID: "a-long", A: engine.Vec{X: 0, Y: 50}, B: engine.Vec{X: 300, Y: 50}},
		{ID: "b-vert", A: engine.Vec{X: 200, Y: 0}, B: engine.Vec{X: 200, Y: 100}},
		{ID: "c-vert", A: engine.Vec{X: 80, Y: 0}, B: engine.Vec{X: 80, Y: 100}},
	}
	hops := Detect(segs)

	got, ok := hops["a-long"]
	if !ok || len(got) != 2 {
		t.Fatalf("hops = %v, want two on a-long", hops)
	}
	first := got[0].Before.Add(got[0].After).Scale(0.5)
	second := got[1].Before.Add(got[1].After).Scale(0.5)
	if first.X >= second.X {
		t.Errorf("hops out of order along edge: %v before %v", first.X, second.X)
	}
}

func TestDetectSharedEndpointNotACrossing(t *testing.T) {
	// Edges incident to the same node have exactly coincident endpoints.
	segs := []Segment{
		{ID: "e1", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 100, Y: 0}},
		{ID: "e2", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 0, Y: 100}},
		{ID: "e3", A: engine.Vec{X: 50, Y: -80}, B: engine.Vec{X: 100, Y: 0}}, // shares B with e1
	}
	if hops := Detect(segs); hops != nil {
		t.Errorf("segments meeting at shared endpoints produced hops: %v", hops)
	}
}

func TestDetectStarFanNoHops(t *testing.T) {
	// A hub with four leaves: every edge pair meets at the hub, none cross.
	hub := engine.Vec{X: 0, Y: 0}
	segs := []Segment{
		{ID: "h-a", A: hub, B: engine.Vec{X: 100, Y: 0}},
		{ID: "h-b", A: hub, B: engine.Vec{X: 0, Y: 100}},
		{ID: "h-c", A: hub, B: engine.Vec{X: -100, Y: 0}},
		{ID: "h-d", A: hub, B: engine.Vec{X: 0, Y: -100}},
	}
	if hops := Detect(segs); hops != nil {
		t.Errorf("star fan produced hops: %v", hops)
	}
}

func TestDetectEndpointTouchNotACrossing(t *testing.T) {
	// e2 starts on e1's interior: a T junction, not a crossing.
	segs := []Segment{
		{ID: "e1", A: engine.Vec{X: 0, Y: 50}, B: engine.Vec{X: 100, Y: 50}},
		{ID: "e2", A: engine.Vec{X: 50, Y: 50}, B: engine.Vec{X: 50, Y: 100}},
	}
	if hops := Detect(segs); hops != nil {
		t.Errorf("T junction produced hops: %v", hops)
	}
}

func TestDetectCrossingSymmetry(t *testing.T) {
	segs := []Segment{
		{ID: "zz", A: engine.Vec{X: 0, Y: 0}, B: engine.Vec{X: 100, Y: 100}},
		{ID: "aa", A: engine.Vec{X: 0, Y: 100}, B: engine.Vec{X: 100, Y: 0}},
	}
	hops := Detect(segs)
	if _, ok := hops["zz"]; ok {
		t.Error("crossing attributed to larger id zz")
	}
	if got := hops["aa"]; len(got) != 1 {
		t.Errorf("smaller id aa got %d hops, want 1", len(got))
	}
}
