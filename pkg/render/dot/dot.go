// Package dot renders a computed layout as Graphviz DOT and SVG.
//
// The simulator owns all positioning, so nodes are pinned at their computed
// coordinates and Graphviz only draws: the neato engine with fixed positions
// never re-layouts. Hop waypoints become explicit edge splines so crossings
// render as arcs rather than flat overlaps.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphweave/pkg/engine"
	"github.com/matzehuels/graphweave/pkg/engine/crossing"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

// pointsPerUnit converts engine pixels to Graphviz points.
const pointsPerUnit = 1.0

// Options configures DOT generation.
type Options struct {
	// EdgeLabels renders edge labels (the source link column name).
	EdgeLabels bool

	// ShowHops emits hop waypoints as edge comments for downstream tools.
	ShowHops bool
}

// ToDOT converts a layout result to DOT with pinned positions.
//
// Visible base nodes render as rounded boxes, stub nodes dashed, collapsed
// meta-nodes as double-bordered boxes sized up by their member count. Only
// the rendered edge set appears; hidden nodes and internal edges are already
// gone from the result.
func ToDOT(g *model.Graph, result *pipeline.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, id := range sortedKeys(result.Positions) {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		pos := result.Positions[id]
		attrs := []string{
			fmt.Sprintf("label=%q", n.DisplayLabel()),
			pinnedPos(pos),
		}
		if n.Stub {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	metaLabels := make(map[string]string, len(result.MetaNodes))
	metaSizes := make(map[string]int, len(result.MetaNodes))
	for i := range result.MetaNodes {
		m := &result.MetaNodes[i]
		metaLabels[m.ID] = m.Label()
		metaSizes[m.ID] = len(m.ChildNodeIDs)
	}
	for _, id := range sortedKeys(result.MetaPositions) {
		pos := result.MetaPositions[id]
		label := metaLabels[id]
		if n := metaSizes[id]; n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s, peripheries=2, fillcolor=lightyellow];\n",
			id, label, pinnedPos(pos))
	}

	buf.WriteString("\n")
	for _, e := range result.Edges {
		attrs := []string{}
		if opts.EdgeLabels && e.ID != "" {
			if orig := findEdge(g, e.ID); orig != nil && orig.Label != "" {
				attrs = append(attrs, fmt.Sprintf("label=%q", orig.Label))
			}
		}
		if opts.ShowHops {
			if hops := result.Hops[e.ID]; len(hops) > 0 {
				attrs = append(attrs, fmt.Sprintf("comment=%q", fmtHops(hops)))
			}
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.RenderSource, e.RenderTarget, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.RenderSource, e.RenderTarget)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pinnedPos formats a fixed neato position attribute.
func pinnedPos(p engine.Vec) string {
	return fmt.Sprintf("pos=\"%.1f,%.1f!\"", p.X*pointsPerUnit, p.Y*pointsPerUnit)
}

// fmtHops flattens hop waypoints into a parseable comment string:
// one "bx,by pX,pY ax,ay" triple per hop, triples separated by semicolons.
func fmtHops(hops []crossing.Hop) string {
	parts := make([]string, 0, len(hops))
	for _, h := range hops {
		parts = append(parts, fmt.Sprintf("%.1f,%.1f %.1f,%.1f %.1f,%.1f",
			h.Before.X, h.Before.Y, h.Peak.X, h.Peak.Y, h.After.X, h.After.Y))
	}
	return strings.Join(parts, ";")
}

func sortedKeys(m map[string]engine.Vec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func findEdge(g *model.Graph, id string) *model.Edge {
	for _, e := range g.Edges() {
		if e.ID == id {
			return &e
		}
	}
	return nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root so the view box starts at the
// origin and the element carries explicit pixel dimensions. Embedding
// contexts otherwise scale the neato output unpredictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
