package engine

// radius returns the collision radius for a node.
func (s *Simulator) radius(id string) float64 {
	return baseRadius * s.size.SizeMultiplier(id)
}

// minPairDistance is the hard minimum center distance for two nodes:
// 2·(rA+rB), which is 4·baseRadius (240px) at default size.
func (s *Simulator) minPairDistance(a, b string) float64 {
	return 2 * (s.radius(a) + s.radius(b))
}

// enforceCollisions pushes apart every overlapping pair by half the overlap
// each. When strict is false (phases 1 and 2), pairs involving a leaf are
// exempt - leaves may pass through other nodes while the layout is still
// exploding. Zero-distance pairs are skipped; repulsion separates them on a
// later tick.
func (s *Simulator) enforceCollisions(st *State, strict bool) {
	ids := s.graph.NodeIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if !strict && (s.graph.IsLeaf(ids[i]) || s.graph.IsLeaf(ids[j])) {
				continue
			}
			s.pushApart(st, ids[i], ids[j], 0.5, 0.5)
		}
	}
}

// pushApart separates the pair a,b if they overlap, moving a by shareA and b
// by shareB of the overlap. A zero share pins that endpoint (used for the
// dragged node). Reports whether the pair overlapped.
func (s *Simulator) pushApart(st *State, a, b string, shareA, shareB float64) bool {
	ba, okA := st.Bodies[a]
	bb, okB := st.Bodies[b]
	if !okA || !okB {
		return false
	}

	delta := ba.Pos().Sub(bb.Pos())
	dist := delta.Len()
	minDist := s.minPairDistance(a, b)
	if dist == 0 || dist >= minDist {
		return false
	}

	overlap := minDist - dist
	unit := delta.Unit()
	ba.X += unit.X * overlap * shareA
	ba.Y += unit.Y * overlap * shareA
	bb.X -= unit.X * overlap * shareB
	bb.Y -= unit.Y * overlap * shareB
	return true
}

// resolveDragOverlaps runs a bounded multi-pass overlap resolution around an
// active drag: the dragged node and its direct neighbors are checked against
// every other node. The dragged node itself never moves - overlap is resolved
// entirely by displacing the other party. Converges or gives up after
// dragMaxPasses.
func (s *Simulator) resolveDragOverlaps(st *State) {
	dragged := st.dragID
	involved := append([]string{dragged}, s.graph.Neighbors(dragged)...)
	all := s.graph.NodeIDs()

	for pass := 0; pass < dragMaxPasses; pass++ {
		moved := false
		for _, id := range involved {
			for _, other := range all {
				if other == id {
					continue
				}
				shareID, shareOther := 0.5, 0.5
				if id == dragged {
					shareID = 0 // pinned to the pointer
					shareOther = 1
				} else if other == dragged {
					shareID = 1
					shareOther = 0
				}
				if s.pushApart(st, id, other, shareID, shareOther) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}
