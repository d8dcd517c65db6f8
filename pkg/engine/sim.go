package engine

import (
	"github.com/matzehuels/graphweave/pkg/model"
)

// Simulator advances a [State] against a fixed graph snapshot. It holds no
// mutable state of its own, so a single Simulator may be shared across
// frames; it is the State that carries the simulation forward.
//
// When the upstream graph changes, build a new Simulator against the new
// snapshot and keep the old State - existing bodies keep their positions and
// only unseen nodes need seeding (see [Seed]).
type Simulator struct {
	graph *model.Graph
	cfg   Config
	size  SizeProvider
}

// NewSimulator creates a simulator for the given graph snapshot.
// A nil size provider defaults to [UnitSize].
func NewSimulator(g *model.Graph, cfg Config, size SizeProvider) *Simulator {
	if size == nil {
		size = UnitSize{}
	}
	return &Simulator{graph: g, cfg: cfg.withDefaults(), size: size}
}

// MaxTicks returns the tick count after which the layout freezes.
func (s *Simulator) MaxTicks() int { return s.cfg.MaxTicks }

// Settled reports whether the state has reached the frozen regime where only
// drag input moves nodes.
func (s *Simulator) Settled(st *State) bool { return st.Tick >= s.cfg.MaxTicks }

// Step advances the simulation by one tick.
//
// Before the tick budget is exhausted this runs the full force pass: springs,
// leaf pull, repulsion, hub gravity, annealed integration, then collision
// enforcement. Afterwards the layout is frozen and Step only services drag
// input. Nodes present in the state but absent from the graph are left
// untouched; graph nodes missing a body contribute nothing until seeded.
func (s *Simulator) Step(st *State) {
	if st.Tick >= s.cfg.MaxTicks {
		s.stepDrag(st)
		return
	}

	p := phaseAt(st.Tick)
	forces := make(map[string]Vec, len(st.Bodies))

	s.applySprings(st, p, forces)
	s.applyLeafPull(st, p, forces)
	s.applyRepulsion(st, forces)
	s.applyHubGravity(st, forces)

	s.integrate(st, forces)
	s.enforceCollisions(st, p.StrictCollision)

	st.Tick++
}

// integrate applies accumulated forces as displacement, clamped by the
// annealing temperature and damped. The applied displacement is recorded as
// the body's velocity for the frame.
func (s *Simulator) integrate(st *State, forces map[string]Vec) {
	temp := s.temperature(st.Tick)
	for id, f := range forces {
		if id == st.dragID {
			continue
		}
		b, ok := st.Bodies[id]
		if !ok {
			continue
		}
		mag := f.Len()
		if mag == 0 {
			continue
		}
		step := min(mag, temp) * damping
		unit := f.Unit()
		b.VX = unit.X * step
		b.VY = unit.Y * step
		b.X += b.VX
		b.Y += b.VY
	}
}

// stepDrag services drag input after the layout has settled. The dragged
// node is pinned to the pointer; its direct neighbors relax toward it on a
// soft spring, and a bounded overlap-resolution pass keeps the neighborhood
// from stacking.
func (s *Simulator) stepDrag(st *State) {
	if st.dragID == "" {
		return
	}
	dragged, ok := st.Bodies[st.dragID]
	if !ok {
		return
	}

	dragged.VX = st.dragX - dragged.X
	dragged.VY = st.dragY - dragged.Y
	dragged.X = st.dragX
	dragged.Y = st.dragY

	for _, nb := range s.graph.Neighbors(st.dragID) {
		b, ok := st.Bodies[nb]
		if !ok {
			continue
		}
		delta := dragged.Pos().Sub(b.Pos())
		dist := delta.Len()
		if dist == 0 {
			continue
		}
		mag := dragStiffness * (dist - dragIdealLength) * dragDamping
		unit := delta.Unit()
		b.VX = unit.X * mag
		b.VY = unit.Y * mag
		b.X += b.VX
		b.Y += b.VY
	}

	s.resolveDragOverlaps(st)
}
