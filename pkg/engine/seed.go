package engine

import (
	"math"
	"math/rand"

	"github.com/matzehuels/graphweave/pkg/model"
)

// Seeding constants. The island pass is deliberately rough - it only has to
// hand the main simulator a start where densely connected subgraphs are
// already separated, not a finished layout.
const (
	seedIterations = 300

	// Intra-cluster forces: springs along edges plus mild repulsion.
	seedIdealLength   = 80.0
	seedStiffness     = 0.05
	seedRepulsion     = 2000.0

	// Inter-cluster centroid repulsion is an order of magnitude stronger
	// than intra-cluster repulsion.
	seedIslandRepulsion = 20000.0

	// minIslandGap is the hard minimum distance between cluster centroids.
	minIslandGap = 300.0

	// seedMaxStep caps per-iteration displacement during seeding.
	seedMaxStep = 40.0

	// centerJitter is the placement radius for nodes added to an existing
	// layout: near the canvas center, absorbed by the main simulator.
	centerJitter = 20.0
)

// Seed produces initial bodies for every node in the graph.
//
// Nodes with an entry in existing keep that position verbatim - returning to
// a previous layout never destabilizes it. If at least one prior position
// exists, unseen nodes are placed near the canvas center with small random
// jitter and left for the main simulator to absorb.
//
// Only on a completely fresh start does the island pass run: connected
// components are placed as separate clusters and relaxed for a fixed
// iteration budget with intra-cluster springs/repulsion plus a much stronger
// inter-cluster centroid repulsion and a hard minimum centroid distance.
// This avoids the tangled convergence of a purely random start.
func Seed(g *model.Graph, width, height float64, existing map[string]Body, rng *rand.Rand) map[string]*Body {
	bodies := make(map[string]*Body, g.NodeCount())

	reused := 0
	for _, id := range g.NodeIDs() {
		if b, ok := existing[id]; ok {
			kept := b
			bodies[id] = &kept
			reused++
		}
	}

	cx, cy := width/2, height/2

	if reused > 0 {
		for _, id := range g.NodeIDs() {
			if _, ok := bodies[id]; ok {
				continue
			}
			bodies[id] = &Body{
				X: cx + (rng.Float64()*2-1)*centerJitter,
				Y: cy + (rng.Float64()*2-1)*centerJitter,
			}
		}
		return bodies
	}

	seedIslands(g, width, height, bodies, rng)
	return bodies
}

// seedIslands runs the two-tier cluster relaxation for a fresh start.
func seedIslands(g *model.Graph, width, height float64, bodies map[string]*Body, rng *rand.Rand) {
	components := g.Components()
	if len(components) == 0 {
		return
	}

	cx, cy := width/2, height/2
	ringRadius := math.Min(width, height) / 4

	// Initial placement: clusters spaced around a ring, members scattered in
	// a disc sized by cluster population.
	clusterOf := make(map[string]int, g.NodeCount())
	for ci, comp := range components {
		angle := 2 * math.Pi * float64(ci) / float64(len(components))
		ccx := cx + ringRadius*math.Cos(angle)
		ccy := cy + ringRadius*math.Sin(angle)
		discRadius := 50 * math.Sqrt(float64(len(comp)))
		for _, id := range comp {
			clusterOf[id] = ci
			r := discRadius * math.Sqrt(rng.Float64())
			theta := rng.Float64() * 2 * math.Pi
			bodies[id] = &Body{X: ccx + r*math.Cos(theta), Y: ccy + r*math.Sin(theta)}
		}
	}

	centroids := make([]Vec, len(components))

	for iter := 0; iter < seedIterations; iter++ {
		computeCentroids(components, bodies, centroids)

		cooling := 1 - float64(iter)/float64(seedIterations)
		maxStep := seedMaxStep * cooling

		for _, comp := range components {
			for _, id := range comp {
				b := bodies[id]
				var f Vec

				// Intra-cluster springs along incident edges.
				for _, nb := range g.Neighbors(id) {
					other := bodies[nb]
					delta := other.Pos().Sub(b.Pos())
					dist := delta.Len()
					if dist == 0 {
						continue
					}
					f = f.Add(delta.Unit().Scale(seedStiffness * (dist - seedIdealLength)))
				}

				// Mild repulsion from same-cluster nodes.
				for _, otherID := range comp {
					if otherID == id {
						continue
					}
					delta := b.Pos().Sub(bodies[otherID].Pos())
					dist := delta.Len()
					if dist == 0 {
						continue
					}
					f = f.Add(delta.Unit().Scale(seedRepulsion / dist))
				}

				// Strong repulsion from every other cluster's centroid.
				for ci := range centroids {
					if ci == clusterOf[id] {
						continue
					}
					delta := b.Pos().Sub(centroids[ci])
					dist := delta.Len()
					if dist == 0 {
						continue
					}
					f = f.Add(delta.Unit().Scale(seedIslandRepulsion / dist))
				}

				mag := f.Len()
				if mag == 0 {
					continue
				}
				step := min(mag, maxStep)
				unit := f.Unit()
				b.X += unit.X * step
				b.Y += unit.Y * step
			}
		}

		separateIslands(components, bodies, centroids)
	}
}

// computeCentroids fills centroids with the mean position of each component.
func computeCentroids(components [][]string, bodies map[string]*Body, centroids []Vec) {
	for ci, comp := range components {
		var sum Vec
		for _, id := range comp {
			sum = sum.Add(bodies[id].Pos())
		}
		centroids[ci] = sum.Scale(1 / float64(len(comp)))
	}
}

// separateIslands enforces the minimum centroid distance by translating whole
// clusters apart. Coincident centroids are separated along a fixed axis so
// the pass always makes progress.
func separateIslands(components [][]string, bodies map[string]*Body, centroids []Vec) {
	computeCentroids(components, bodies, centroids)
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			delta := centroids[i].Sub(centroids[j])
			dist := delta.Len()
			if dist >= minIslandGap {
				continue
			}
			unit := Vec{1, 0}
			if dist > 0 {
				unit = delta.Unit()
			}
			shift := unit.Scale((minIslandGap - dist) / 2)
			translate(components[i], bodies, shift)
			translate(components[j], bodies, shift.Scale(-1))
			centroids[i] = centroids[i].Add(shift)
			centroids[j] = centroids[j].Sub(shift)
		}
	}
}

func translate(comp []string, bodies map[string]*Body, by Vec) {
	for _, id := range comp {
		bodies[id].X += by.X
		bodies[id].Y += by.Y
	}
}
