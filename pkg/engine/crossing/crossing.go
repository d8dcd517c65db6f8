// Package crossing finds intersections between rendered edge segments and
// turns them into hop waypoints, small perpendicular arcs the renderer draws
// where one edge passes over another.
package crossing

import (
	"math"
	"sort"

	"github.com/matzehuels/graphweave/pkg/engine"
)

// Hop geometry: the arc spans hopSpan along the edge on either side of the
// crossing point and bulges hopRise perpendicular to it.
const (
	hopSpan = 10.0
	hopRise = 12.0

	// epsilon below which the segment-pair determinant counts as parallel.
	epsilon = 1e-9
)

// Segment is one rendered edge as a straight line between its endpoint
// positions.
type Segment struct {
	ID string
	A  engine.Vec
	B  engine.Vec
}

// Hop is one waypoint triple for the renderer: enter the arc at Before, peak
// at Peak, rejoin the straight line at After.
type Hop struct {
	Before engine.Vec `json:"before"`
	Peak   engine.Vec `json:"peak"`
	After  engine.Vec `json:"after"`
}

// Detect computes hop waypoints for every pairwise segment crossing.
//
// Each crossing is attributed to exactly one of the two segments, the one
// with the lexicographically smaller ID, so both agree on who hops. Per
// segment, hops are ordered by signed projection of the crossing point along
// the segment's direction, front to back. Parallel and coincident pairs
// produce no crossing, endpoint touches do not count (edges sharing a node
// meet there without crossing), and degenerate zero-length segments are
// skipped.
func Detect(segments []Segment) map[string][]Hop {
	points := make(map[string][]engine.Vec)

	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			p, ok := intersect(segments[i], segments[j])
			if !ok {
				continue
			}
			owner := segments[i].ID
			if segments[j].ID < owner {
				owner = segments[j].ID
			}
			points[owner] = append(points[owner], p)
		}
	}
	if len(points) == 0 {
		return nil
	}

	byID := make(map[string]Segment, len(segments))
	for _, s := range segments {
		byID[s.ID] = s
	}

	hops := make(map[string][]Hop, len(points))
	for id, pts := range points {
		seg := byID[id]
		dir := seg.B.Sub(seg.A)
		length := dir.Len()
		if length == 0 {
			continue
		}
		unit := dir.Unit()

		sort.Slice(pts, func(a, b int) bool {
			return pts[a].Sub(seg.A).Dot(unit) < pts[b].Sub(seg.A).Dot(unit)
		})

		perp := unit.Perp()
		out := make([]Hop, 0, len(pts))
		for _, p := range pts {
			out = append(out, Hop{
				Before: p.Sub(unit.Scale(hopSpan)),
				Peak:   p.Add(perp.Scale(hopRise)),
				After:  p.Add(unit.Scale(hopSpan)),
			})
		}
		hops[id] = out
	}
	return hops
}

// intersect runs the 2x2 determinant line-segment test on a pair. A
// near-zero determinant means parallel or coincident, which never counts as
// a crossing.
//
// The intersection must be interior to both segments: parameters at (or
// within epsilon of) 0 or 1 are rejected. Edges meeting at a shared node
// touch at the junction, and a touch is not a mid-span crossing to hop over.
func intersect(s1, s2 Segment) (engine.Vec, bool) {
	r := s1.B.Sub(s1.A)
	s := s2.B.Sub(s2.A)

	denom := r.X*s.Y - r.Y*s.X
	if math.Abs(denom) < epsilon {
		return engine.Vec{}, false
	}

	qp := s2.A.Sub(s1.A)
	t := (qp.X*s.Y - qp.Y*s.X) / denom
	u := (qp.X*r.Y - qp.Y*r.X) / denom
	if t < epsilon || t > 1-epsilon || u < epsilon || u > 1-epsilon {
		return engine.Vec{}, false
	}
	return s1.A.Add(r.Scale(t)), true
}
