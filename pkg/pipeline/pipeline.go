// Package pipeline wires the engine stages into one computation:
// grouping, visibility, edge projection, seeding, simulation and crossing
// detection. Both the CLI and the HTTP API drive layouts through this
// package instead of assembling the stages themselves.
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/engine"
	"github.com/matzehuels/graphweave/pkg/engine/crossing"
	"github.com/matzehuels/graphweave/pkg/engine/group"
	"github.com/matzehuels/graphweave/pkg/engine/project"
	"github.com/matzehuels/graphweave/pkg/errors"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/observability"
)

// Default option values.
const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultMaxTicks = engine.DefaultMaxTicks
	DefaultSeed     = 42
)

// cancelCheckInterval is how many simulation ticks run between context
// checks. Checking every tick is measurable on large graphs.
const cancelCheckInterval = 25

// Options configures one layout computation.
type Options struct {
	// Grouping configures meta-node generation. Zero value disables it.
	Grouping group.Config

	// Filter is the active search result set; matching nodes stay visible
	// through collapsed groups. Nil means no filter.
	Filter map[string]bool

	// Canvas dimensions. Zero values take the defaults.
	Width  float64
	Height float64

	// MaxTicks bounds the simulation. Zero takes the default.
	MaxTicks int

	// Seed drives initial placement. Identical seeds with identical graphs
	// give identical layouts.
	Seed int64

	// Existing carries positions from a previous layout; nodes present here
	// keep their position and only new nodes are seeded.
	Existing map[string]engine.Body

	// Size scales per-node collision radii. Nil means every node is unit
	// size. Meta-node sizing is layered on top of this internally.
	Size engine.SizeProvider

	// Logger receives stage progress. Nil discards.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas dimensions must not be negative")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxTicks < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max ticks must not be negative")
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns the cache key fields for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		MaxTicks:     o.MaxTicks,
		Seed:         o.Seed,
		GroupingHash: groupingHash(o.Grouping, o.Filter),
	}
}

// Stats carries per-stage timings and counts for logs and API responses.
type Stats struct {
	GroupTime    time.Duration `json:"group_time"`
	LayoutTime   time.Duration `json:"layout_time"`
	ProjectTime  time.Duration `json:"project_time"`
	NodeCount    int           `json:"node_count"`
	EdgeCount    int           `json:"edge_count"`
	MetaCount    int           `json:"meta_count"`
	RenderedEdge int           `json:"rendered_edge_count"`
	Ticks        int           `json:"ticks"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"`
}

// Result is the full output of one layout computation, everything a renderer
// needs to draw the frame.
type Result struct {
	Positions     map[string]engine.Vec     `json:"positions"`
	MetaPositions map[string]engine.Vec     `json:"meta_positions"`
	MetaNodes     []group.MetaNode          `json:"meta_nodes,omitempty"`
	Edges         []project.TransformedEdge `json:"edges"`
	Hops          map[string][]crossing.Hop `json:"hops,omitempty"`
	HiddenNodes   []string                  `json:"hidden_nodes,omitempty"`
	HiddenMetas   []string                  `json:"hidden_metas,omitempty"`

	GraphHash string    `json:"graph_hash"`
	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache_info"`
}

// Compute runs the full layout pipeline over a graph.
//
// The context is checked between simulation ticks; cancellation abandons the
// computation with the context's error and no partial result.
func Compute(ctx context.Context, g *model.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Engine()

	result := &Result{}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: grouping and visibility.
	groupStart := time.Now()
	metas := group.Generate(nodesOf(g), opts.Grouping)
	vis := group.Resolve(metas, opts.Filter)
	result.MetaNodes = metas
	result.Stats.GroupTime = time.Since(groupStart)
	result.Stats.MetaCount = len(metas)
	hooks.OnGroupComplete(ctx, len(metas), result.Stats.GroupTime)

	opts.Logger.Debug("grouped nodes",
		"meta_nodes", len(metas),
		"hidden_nodes", len(vis.HiddenNodes),
		"duration", result.Stats.GroupTime)

	// Stage 2: projection. The projected edges are also the simulation's
	// edge set, so collapsed groups pull as single bodies.
	projectStart := time.Now()
	edges := project.Project(g.Edges(), vis.Owner)
	result.Edges = edges
	result.Stats.RenderedEdge = len(edges)
	hooks.OnProjectComplete(ctx, len(edges), g.EdgeCount()-len(edges))

	// Stage 3: simulation over the rendered graph.
	simGraph := buildSimGraph(g, metas, vis, edges)
	sizes := newGroupSize(opts.Size, metas)

	seedStart := time.Now()
	hooks.OnSeedStart(ctx, simGraph.NodeCount(), len(simGraph.Components()))
	rng := rand.New(rand.NewSource(opts.Seed))
	bodies := engine.Seed(simGraph, opts.Width, opts.Height, opts.Existing, rng)
	hooks.OnSeedComplete(ctx, len(bodies), time.Since(seedStart))

	layoutStart := time.Now()
	hooks.OnSimulateStart(ctx, simGraph.NodeCount())
	sim := engine.NewSimulator(simGraph, engine.Config{
		Width:    opts.Width,
		Height:   opts.Height,
		MaxTicks: opts.MaxTicks,
	}, sizes)
	st := engine.NewState(bodies)
	for !sim.Settled(st) {
		if st.Tick%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeTimeout, err, "layout canceled at tick %d", st.Tick)
			}
		}
		sim.Step(st)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Ticks = st.Tick
	hooks.OnSimulateComplete(ctx, simGraph.NodeCount(), st.Tick, result.Stats.LayoutTime)

	opts.Logger.Info("computed layout",
		"nodes", simGraph.NodeCount(),
		"ticks", st.Tick,
		"duration", result.Stats.LayoutTime)

	// Split positions by kind.
	result.Positions = make(map[string]engine.Vec)
	result.MetaPositions = make(map[string]engine.Vec)
	metaIDs := make(map[string]bool, len(metas))
	for i := range metas {
		metaIDs[metas[i].ID] = true
	}
	for id, b := range st.Positions() {
		if metaIDs[id] {
			result.MetaPositions[id] = b
		} else {
			result.Positions[id] = b
		}
	}

	// Stage 4: crossings over the final segments.
	segments := make([]crossing.Segment, 0, len(edges))
	for _, e := range edges {
		a, okA := st.Bodies[e.RenderSource]
		b, okB := st.Bodies[e.RenderTarget]
		if !okA || !okB {
			continue
		}
		segments = append(segments, crossing.Segment{ID: e.ID, A: a.Pos(), B: b.Pos()})
	}
	crossStart := time.Now()
	result.Hops = crossing.Detect(segments)
	hooks.OnCrossingsComplete(ctx, len(result.Hops), time.Since(crossStart))
	result.Stats.ProjectTime = time.Since(projectStart) - result.Stats.LayoutTime

	for id := range vis.HiddenNodes {
		result.HiddenNodes = append(result.HiddenNodes, id)
	}
	for id := range vis.HiddenMetas {
		result.HiddenMetas = append(result.HiddenMetas, id)
	}

	return result, nil
}

// nodesOf flattens the graph's node map for grouping.
func nodesOf(g *model.Graph) []model.Node {
	ids := g.NodeIDs()
	nodes := make([]model.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, *n)
		}
	}
	return nodes
}

// buildSimGraph assembles the graph the simulator actually runs on: visible
// base nodes plus visible collapsed meta-nodes as synthetic bodies, connected
// by the projected edges.
func buildSimGraph(g *model.Graph, metas []group.MetaNode, vis *group.Visibility, edges []project.TransformedEdge) *model.Graph {
	var nodes []model.Node
	for _, id := range g.NodeIDs() {
		if !vis.NodeVisible(id) {
			continue
		}
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, *n)
		}
	}
	for i := range metas {
		m := &metas[i]
		if m.Collapsed && vis.MetaVisible(m.ID) {
			nodes = append(nodes, model.Node{ID: m.ID, Label: m.Label()})
		}
	}

	simEdges := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		simEdges = append(simEdges, model.Edge{
			ID:     e.ID,
			Source: e.RenderSource,
			Target: e.RenderTarget,
		})
	}
	return model.Build(nodes, simEdges)
}

// groupSize layers meta-node sizing over the caller's size provider:
// a collapsed group occupies space proportional to the square root of its
// member count, so big groups read as big bodies without dominating.
type groupSize struct {
	inner    engine.SizeProvider
	children map[string]int
}

func newGroupSize(inner engine.SizeProvider, metas []group.MetaNode) engine.SizeProvider {
	if inner == nil {
		inner = engine.UnitSize{}
	}
	children := make(map[string]int, len(metas))
	for i := range metas {
		children[metas[i].ID] = len(metas[i].ChildNodeIDs)
	}
	return &groupSize{inner: inner, children: children}
}

func (s *groupSize) SizeMultiplier(id string) float64 {
	if n, ok := s.children[id]; ok && n > 0 {
		return math.Max(1, math.Sqrt(float64(n)))
	}
	return s.inner.SizeMultiplier(id)
}

// groupingHash folds the grouping config and filter set into a cache key
// component.
func groupingHash(cfg group.Config, filter map[string]bool) string {
	if !cfg.Enabled && len(filter) == 0 {
		return ""
	}
	data, _ := json.Marshal(struct {
		Config group.Config    `json:"config"`
		Filter map[string]bool `json:"filter,omitempty"`
	}{cfg, filter})
	return cache.Hash(data)
}
