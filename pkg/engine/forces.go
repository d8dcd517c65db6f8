package engine

import (
	"hash/fnv"
	"math"
)

// applySprings accumulates spring attraction along every edge. Edges with a
// leaf endpoint use the phase parameters; structural edges between two
// non-leaf nodes always use the fixed structural geometry.
func (s *Simulator) applySprings(st *State, p phaseParams, forces map[string]Vec) {
	for _, e := range s.graph.Edges() {
		a, okA := st.Bodies[e.Source]
		b, okB := st.Bodies[e.Target]
		if !okA || !okB {
			continue
		}

		ideal, k := structuralIdealLength, structuralStiffness
		if s.graph.IsLeaf(e.Source) || s.graph.IsLeaf(e.Target) {
			ideal, k = p.LeafIdealLength, p.LeafStiffness
		}

		delta := b.Pos().Sub(a.Pos())
		dist := delta.Len()
		if dist == 0 {
			continue // coincident endpoints contribute nothing
		}

		// Positive magnitude pulls the endpoints together.
		mag := k * (dist - ideal)
		f := delta.Unit().Scale(mag)
		forces[e.Source] = forces[e.Source].Add(f)
		forces[e.Target] = forces[e.Target].Sub(f)
	}
}

// applyLeafPull accumulates the phase 2+ direct leaf→parent attraction,
// proportional to distance. A leaf's parent is its single neighbor.
func (s *Simulator) applyLeafPull(st *State, p phaseParams, forces map[string]Vec) {
	if p.LeafPull == 0 {
		return
	}
	for _, id := range s.graph.NodeIDs() {
		if !s.graph.IsLeaf(id) {
			continue
		}
		parent := s.graph.Neighbors(id)[0]
		leaf, okL := st.Bodies[id]
		par, okP := st.Bodies[parent]
		if !okL || !okP {
			continue
		}
		delta := par.Pos().Sub(leaf.Pos())
		dist := delta.Len()
		if dist == 0 {
			continue
		}
		forces[id] = forces[id].Add(delta.Unit().Scale(p.LeafPull * dist))
	}
}

// applyRepulsion accumulates Coulomb-style repulsion F = strength/d for every
// unordered node pair. The base strength is scaled by a deterministic per-pair
// hash factor in [0.5, 1.5] so spacing looks organic rather than gridded.
// Leaves contribute and receive only a fraction of normal repulsion; two hubs
// that both carry leaf fans repel extra, proportional to the geometric mean
// of their fan sizes, so star clusters stay apart.
func (s *Simulator) applyRepulsion(st *State, forces map[string]Vec) {
	ids := s.graph.NodeIDs()
	for i := 0; i < len(ids); i++ {
		a, okA := st.Bodies[ids[i]]
		if !okA {
			continue
		}
		for j := i + 1; j < len(ids); j++ {
			b, okB := st.Bodies[ids[j]]
			if !okB {
				continue
			}

			delta := a.Pos().Sub(b.Pos())
			dist := delta.Len()
			if dist == 0 {
				continue // zero-distance pair: skip, never divide
			}

			strength := repulsionStrength * pairJitter(ids[i], ids[j])

			leafA := s.graph.IsLeaf(ids[i])
			leafB := s.graph.IsLeaf(ids[j])
			if leafA {
				strength *= leafRepulsionFactor
			}
			if leafB {
				strength *= leafRepulsionFactor
			}
			if !leafA && !leafB {
				la := s.graph.LeafChildCount(ids[i])
				lb := s.graph.LeafChildCount(ids[j])
				if la > 0 && lb > 0 {
					strength *= 1 + hubRepulsionBoost*math.Sqrt(float64(la)*float64(lb))
				}
			}

			f := delta.Unit().Scale(strength / dist)
			forces[ids[i]] = forces[ids[i]].Add(f)
			forces[ids[j]] = forces[ids[j]].Sub(f)
		}
	}
}

// applyHubGravity pulls each node weakly toward its highest-degree neighbor,
// proportional to distance. This collapses local stars into tight cores
// without any global centering force.
func (s *Simulator) applyHubGravity(st *State, forces map[string]Vec) {
	for _, id := range s.graph.NodeIDs() {
		hub := s.graph.HubNeighbor(id)
		if hub == "" {
			continue
		}
		b, okB := st.Bodies[id]
		h, okH := st.Bodies[hub]
		if !okB || !okH {
			continue
		}
		delta := h.Pos().Sub(b.Pos())
		dist := delta.Len()
		if dist == 0 {
			continue
		}
		forces[id] = forces[id].Add(delta.Unit().Scale(hubGravity * dist))
	}
}

// temperature returns the annealing displacement cap for tick t:
// T = k_opt·(1−t/max)² with k_opt = sqrt(canvasArea/nodeCount).
func (s *Simulator) temperature(t int) float64 {
	n := s.graph.NodeCount()
	if n == 0 {
		return 0
	}
	kOpt := math.Sqrt(s.cfg.Width * s.cfg.Height / float64(n))
	frac := 1 - float64(t)/float64(s.cfg.MaxTicks)
	return kOpt * frac * frac
}

// pairJitter derives a stable factor in [0.5, 1.5] from an unordered ID pair.
// The same two nodes always repel with the same strength, run after run.
func pairJitter(a, b string) float64 {
	if b < a {
		a, b = b, a
	}
	h := fnv.New64a()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	return 0.5 + float64(h.Sum64()%1001)/1000.0
}
