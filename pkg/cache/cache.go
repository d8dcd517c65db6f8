// Package cache provides pluggable caching for layout computation.
//
// Layouts are deterministic for a given graph and option set, so the cache
// key is a hash of both; a hit skips the full simulation. Backends:
//   - file: directory-based cache for CLI usage
//   - redis: shared cache for server deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact class. Layouts are cheap to recompute relative
// to their staleness cost, renders are not.
const (
	// TTLDocument is the lifetime of cached ingested documents.
	TTLDocument = 24 * time.Hour

	// TTLLayout is the lifetime of cached layout results.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of cached rendered artifacts (DOT, SVG).
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss; a miss
	// is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the option fields that affect layout output and
// therefore belong in the layout cache key.
type LayoutKeyOpts struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MaxTicks     int     `json:"max_ticks"`
	Seed         int64   `json:"seed"`
	GroupingHash string  `json:"grouping_hash"`
}

// ArtifactKeyOpts are the option fields that affect rendered artifacts.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	ShowHops  bool   `json:"show_hops"`
	EdgeLabel bool   `json:"edge_label"`
}

// Keyer generates cache keys. Separating key generation from storage lets
// the server wrap keys with per-user scopes without touching the backends.
type Keyer interface {
	// DocumentKey generates a key for an ingested document.
	DocumentKey(sourceHash string) string

	// LayoutKey generates a key for a layout computed over the graph with
	// the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact derived from the
	// layout with the given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for an ingested document.
func (k *DefaultKeyer) DocumentKey(sourceHash string) string {
	return hashKey("doc", sourceHash)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
