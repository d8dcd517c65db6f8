// Package project rewrites the edge set for rendering against collapsed
// meta-nodes.
//
// An edge whose endpoint sits inside a collapsed group cannot be drawn to the
// hidden node; it is redirected to the group's meta-node instead. Edges fully
// internal to one collapsed group disappear, and redundant projections onto
// the same rendered pair are collapsed to one.
package project

import "github.com/matzehuels/graphweave/pkg/model"

// TransformedEdge is an edge prepared for rendering. Source and Target keep
// the original endpoints; RenderSource and RenderTarget are the endpoints the
// renderer should actually connect, which differ when an endpoint was
// swallowed by a collapsed meta-node.
//
// Every TransformedEdge should render: edges that project onto themselves are
// already dropped by [Project], so presence in its output is the render
// decision.
type TransformedEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	RenderSource string `json:"render_source"`
	RenderTarget string `json:"render_target"`
}

// SourceIsMeta reports whether the source endpoint was redirected to a
// collapsed meta-node.
func (e *TransformedEdge) SourceIsMeta() bool { return e.RenderSource != e.Source }

// TargetIsMeta reports whether the target endpoint was redirected to a
// collapsed meta-node.
func (e *TransformedEdge) TargetIsMeta() bool { return e.RenderTarget != e.Target }

// Redirected reports whether either endpoint was rewritten.
func (e *TransformedEdge) Redirected() bool {
	return e.SourceIsMeta() || e.TargetIsMeta()
}

// Project computes the rendered edge list. owner maps a hidden node to the
// outermost collapsed meta-node that swallowed it (see group.Resolve); nodes
// absent from the map render as themselves.
//
// Edges projecting onto themselves (both endpoints inside the same collapsed
// group) are dropped. Multiple edges projecting onto the same rendered
// (source, target) pair are deduplicated, first occurrence in input order
// winning. The ordered pair is significant: projections in opposite
// directions stay distinct.
func Project(edges []model.Edge, owner map[string]string) []TransformedEdge {
	type pair struct{ source, target string }
	seen := make(map[pair]bool, len(edges))

	out := make([]TransformedEdge, 0, len(edges))
	for _, e := range edges {
		renderSource := e.Source
		if m, ok := owner[e.Source]; ok {
			renderSource = m
		}
		renderTarget := e.Target
		if m, ok := owner[e.Target]; ok {
			renderTarget = m
		}

		if renderSource == renderTarget {
			continue
		}
		key := pair{renderSource, renderTarget}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, TransformedEdge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			RenderSource: renderSource,
			RenderTarget: renderTarget,
		})
	}
	return out
}
