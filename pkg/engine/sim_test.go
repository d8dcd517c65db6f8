package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/graphweave/pkg/model"
)

func starGraph(leaves int) *model.Graph {
	nodes := []model.Node{{ID: "H"}}
	var edges []model.Edge
	for i := 1; i <= leaves; i++ {
		id := "L" + string(rune('0'+i))
		nodes = append(nodes, model.Node{ID: id})
		edges = append(edges, model.Edge{ID: "e" + id, Source: "H", Target: id})
	}
	return model.Build(nodes, edges)
}

func runToSettled(t *testing.T, sim *Simulator, st *State) {
	t.Helper()
	for !sim.Settled(st) {
		sim.Step(st)
		for id, b := range st.Bodies {
			if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) {
				t.Fatalf("tick %d: node %s has non-finite position (%v, %v)", st.Tick, id, b.X, b.Y)
			}
		}
	}
}

func dist(a, b *Body) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestStarLayout(t *testing.T) {
	g := starGraph(4)
	sim := NewSimulator(g, Config{Width: 1200, Height: 900}, nil)

	rng := rand.New(rand.NewSource(42))
	st := NewState(Seed(g, 1200, 900, nil, rng))
	runToSettled(t, sim, st)

	hub := st.Bodies["H"]
	leaves := []string{"L1", "L2", "L3", "L4"}

	// Every leaf ends up closer to the hub than to any other leaf.
	for i, li := range leaves {
		for j, lj := range leaves {
			if i >= j {
				continue
			}
			toHub := dist(st.Bodies[li], hub)
			toLeaf := dist(st.Bodies[li], st.Bodies[lj])
			if toHub >= toLeaf {
				t.Errorf("%s: distance to hub %.1f >= distance to %s %.1f", li, toHub, lj, toLeaf)
			}
		}
	}

	// Pairwise leaf distances respect the collision minimum.
	const tolerance = 1.0
	for i, li := range leaves {
		for j, lj := range leaves {
			if i >= j {
				continue
			}
			d := dist(st.Bodies[li], st.Bodies[lj])
			if d < 4*baseRadius-tolerance {
				t.Errorf("leaves %s,%s distance %.1f below collision minimum %.0f", li, lj, d, 4*baseRadius)
			}
		}
	}
}

func TestNoOverlapAfterPhaseThree(t *testing.T) {
	// A small mesh: two hubs with shared structure.
	g := model.Build(
		[]model.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}},
		[]model.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "c"},
			{ID: "e3", Source: "c", Target: "d"},
			{ID: "e4", Source: "d", Target: "a"},
			{ID: "e5", Source: "a", Target: "e"},
		},
	)
	sim := NewSimulator(g, Config{Width: 1600, Height: 1200}, nil)

	rng := rand.New(rand.NewSource(7))
	st := NewState(Seed(g, 1600, 1200, nil, rng))
	runToSettled(t, sim, st)

	const tolerance = 1.0
	ids := g.NodeIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			d := dist(st.Bodies[ids[i]], st.Bodies[ids[j]])
			if d < 4*baseRadius-tolerance {
				t.Errorf("pair %s,%s distance %.1f below minimum %.0f", ids[i], ids[j], d, 4*baseRadius)
			}
		}
	}
}

func TestCoincidentNodesDoNotNaN(t *testing.T) {
	g := model.Build(
		[]model.Node{{ID: "a"}, {ID: "b"}},
		[]model.Edge{{ID: "e1", Source: "a", Target: "b"}},
	)
	sim := NewSimulator(g, Config{}, nil)

	// Both bodies at the exact same point.
	st := NewState(map[string]*Body{
		"a": {X: 100, Y: 100},
		"b": {X: 100, Y: 100},
	})

	for i := 0; i < 50; i++ {
		sim.Step(st)
	}
	for id, b := range st.Bodies {
		if math.IsNaN(b.X) || math.IsNaN(b.Y) {
			t.Fatalf("node %s has NaN position after coincident start", id)
		}
	}
}

func TestFrozenAfterMaxTicks(t *testing.T) {
	g := starGraph(2)
	sim := NewSimulator(g, Config{Width: 800, Height: 600}, nil)

	rng := rand.New(rand.NewSource(1))
	st := NewState(Seed(g, 800, 600, nil, rng))
	runToSettled(t, sim, st)

	before := make(map[string]Vec)
	for id, b := range st.Bodies {
		before[id] = b.Pos()
	}

	// Steps with no drag active must not move anything.
	for i := 0; i < 10; i++ {
		sim.Step(st)
	}
	for id, b := range st.Bodies {
		if b.Pos() != before[id] {
			t.Errorf("node %s moved after freeze: %v -> %v", id, before[id], b.Pos())
		}
	}
}

func TestDragPinsNodeAndRelaxesNeighbors(t *testing.T) {
	g := starGraph(3)
	sim := NewSimulator(g, Config{Width: 800, Height: 600}, nil)

	rng := rand.New(rand.NewSource(3))
	st := NewState(Seed(g, 800, 600, nil, rng))
	runToSettled(t, sim, st)

	st.Drag("H", 50, 60)
	sim.Step(st)

	hub := st.Bodies["H"]
	if hub.X != 50 || hub.Y != 60 {
		t.Errorf("dragged node at (%.1f, %.1f), want pinned to (50, 60)", hub.X, hub.Y)
	}

	// Dragging far away must drag the neighborhood check without overlap.
	st.Drag("H", 5000, 5000)
	for i := 0; i < 200; i++ {
		sim.Step(st)
	}
	st.Release()

	for _, id := range []string{"L1", "L2", "L3"} {
		d := dist(st.Bodies[id], st.Bodies["H"])
		if d < 4*baseRadius-1 {
			t.Errorf("neighbor %s overlaps dragged hub: distance %.1f", id, d)
		}
	}
}

func TestSizeProviderScalesCollision(t *testing.T) {
	g := model.Build(
		[]model.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]model.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "c"},
			{ID: "e3", Source: "c", Target: "a"},
		},
	)
	double := SizeFunc(func(id string) float64 {
		if id == "a" {
			return 2
		}
		return 1
	})
	sim := NewSimulator(g, Config{Width: 1600, Height: 1200}, double)

	rng := rand.New(rand.NewSource(11))
	st := NewState(Seed(g, 1600, 1200, nil, rng))
	runToSettled(t, sim, st)

	// a has radius 120, b and c 60: min distance a-b is 2*(120+60) = 360.
	if d := dist(st.Bodies["a"], st.Bodies["b"]); d < 360-1 {
		t.Errorf("a-b distance %.1f below scaled minimum 360", d)
	}
	if d := dist(st.Bodies["b"], st.Bodies["c"]); d < 240-1 {
		t.Errorf("b-c distance %.1f below minimum 240", d)
	}
}
