package pipeline

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphweave/pkg/cache"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/observability"
)

// Runner executes layout computations with caching. Both CLI and API use it
// to avoid duplicating cache logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// results. Multiple goroutines can safely share one Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ComputeLayout runs the layout pipeline with caching.
//
// Layouts seeded from existing positions depend on state outside the cache
// key, so they bypass the cache entirely.
func (r *Runner) ComputeLayout(ctx context.Context, g *model.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if len(opts.Existing) > 0 {
		return Compute(ctx, g, opts)
	}

	graphData, err := model.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			cacheHooks.OnCacheHit(ctx, "layout")
			cached.CacheInfo.LayoutHit = true
			r.Logger.Debug("layout cache hit", "graph_hash", graphHash[:12])
			return &cached, nil
		}
		// Corrupt entry falls through to recompute.
	}
	cacheHooks.OnCacheMiss(ctx, "layout")

	result, err := Compute(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.GraphHash = graphHash

	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
