// Package group computes the meta-node hierarchy used to collapse clusters of
// related nodes into single rendered bodies.
//
// Grouping is layered: layer 0 buckets base nodes by a configured attribute,
// and every subsequent layer buckets the previous layer's meta-nodes by a new
// attribute. The hierarchy is kept as a flat arena of [MetaNode] values with
// explicit child ID references rather than a nested object graph.
package group

import (
	"fmt"
	"sort"

	"github.com/matzehuels/graphweave/pkg/model"
)

// Layer configures one grouping tier. Layer order in [Config.Layers] is the
// tier order: the first entry groups base nodes, each following entry groups
// the meta-nodes of the entry before it.
type Layer struct {
	// Attribute names the node attribute whose value buckets members
	// together. An empty attribute makes the layer produce no groups.
	Attribute string `json:"attribute" toml:"attribute"`

	// AutoCollapse marks the layer's meta-nodes as collapsed on creation.
	AutoCollapse bool `json:"auto_collapse" toml:"auto_collapse"`

	// Order is the caller's display ordinal. It does not affect grouping.
	Order int `json:"order" toml:"order"`
}

// Config is the full grouping configuration.
type Config struct {
	Enabled bool    `json:"enabled" toml:"enabled"`
	Layers  []Layer `json:"layers" toml:"layers"`
}

// MetaNode is one synthetic group in the hierarchy.
//
// ChildNodeIDs always holds the full set of base-node descendants, regardless
// of layer. ChildMetaIDs is empty at layer 0 and references the directly
// grouped previous-layer meta-nodes at layer >= 1.
type MetaNode struct {
	ID        string `json:"id"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Layer     int    `json:"layer"`
	Collapsed bool   `json:"collapsed"`

	ChildNodeIDs []string `json:"child_node_ids"`
	ChildMetaIDs []string `json:"child_meta_ids,omitempty"`
}

// Label returns the human-readable group caption.
func (m *MetaNode) Label() string {
	return fmt.Sprintf("%s: %s", m.Attribute, m.Value)
}

// metaID builds the deterministic meta-node identifier. Including the layer
// keeps IDs unique when the same attribute value recurs across tiers.
func metaID(layer int, attribute, value string) string {
	return fmt.Sprintf("meta:%d:%s:%s", layer, attribute, value)
}

// Generate computes the full meta-node arena for the given nodes and config.
//
// Layer 0 buckets nodes by the distinct non-empty values of the layer's
// attribute. A node whose attribute resolves to more than one distinct value
// has ambiguous membership and is excluded from every bucket; a node lacking
// the attribute is excluded as well. Buckets with fewer than two members are
// discarded.
//
// Each layer >= 1 buckets the previous layer's meta-nodes, reading the new
// attribute from each meta-node's first child node. Grouping at these layers
// is global: meta-nodes are bucketed across the whole previous layer, not
// within their layer-0 parents. A layer that yields no groups terminates the
// cascade; later layers are skipped.
//
// The result is sorted by (layer, ID) and fully deterministic for a given
// input, so repeated calls yield identical arenas.
func Generate(nodes []model.Node, cfg Config) []MetaNode {
	if !cfg.Enabled || len(cfg.Layers) == 0 {
		return nil
	}

	byID := make(map[string]*model.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	var arena []MetaNode

	previous := generateBase(nodes, 0, cfg.Layers[0])
	arena = append(arena, previous...)

	for li := 1; li < len(cfg.Layers); li++ {
		if len(previous) == 0 {
			break
		}
		next := generateNested(previous, byID, li, cfg.Layers[li])
		arena = append(arena, next...)
		previous = next
	}

	sort.Slice(arena, func(i, j int) bool {
		if arena[i].Layer != arena[j].Layer {
			return arena[i].Layer < arena[j].Layer
		}
		return arena[i].ID < arena[j].ID
	})
	return arena
}

// generateBase buckets base nodes for a single layer.
func generateBase(nodes []model.Node, layer int, lc Layer) []MetaNode {
	if lc.Attribute == "" {
		return nil
	}

	buckets := make(map[string][]string)
	for i := range nodes {
		values := nodes[i].DistinctAttrValues(lc.Attribute)
		if len(values) != 1 {
			// Missing or ambiguous membership excludes the node outright.
			continue
		}
		buckets[values[0]] = append(buckets[values[0]], nodes[i].ID)
	}

	return bucketsToMetas(buckets, nil, layer, lc)
}

// generateNested buckets previous-layer meta-nodes by an attribute read from
// each meta-node's first child node.
func generateNested(previous []MetaNode, byID map[string]*model.Node, layer int, lc Layer) []MetaNode {
	if lc.Attribute == "" {
		return nil
	}

	nodeBuckets := make(map[string][]string)
	metaBuckets := make(map[string][]string)
	for i := range previous {
		prev := &previous[i]
		if len(prev.ChildNodeIDs) == 0 {
			continue
		}
		rep, ok := byID[prev.ChildNodeIDs[0]]
		if !ok {
			continue
		}
		values := rep.DistinctAttrValues(lc.Attribute)
		if len(values) != 1 {
			continue
		}
		nodeBuckets[values[0]] = append(nodeBuckets[values[0]], prev.ChildNodeIDs...)
		metaBuckets[values[0]] = append(metaBuckets[values[0]], prev.ID)
	}

	// A bucket must combine at least two previous-layer meta-nodes.
	for value, metas := range metaBuckets {
		if len(metas) < 2 {
			delete(metaBuckets, value)
			delete(nodeBuckets, value)
		}
	}

	return bucketsToMetas(nodeBuckets, metaBuckets, layer, lc)
}

// bucketsToMetas materializes buckets as meta-nodes, dropping buckets with
// fewer than two node members and sorting everything for determinism.
func bucketsToMetas(nodeBuckets, metaBuckets map[string][]string, layer int, lc Layer) []MetaNode {
	values := make([]string, 0, len(nodeBuckets))
	for v := range nodeBuckets {
		values = append(values, v)
	}
	sort.Strings(values)

	var metas []MetaNode
	for _, v := range values {
		nodeIDs := dedupSorted(nodeBuckets[v])
		if len(nodeIDs) < 2 {
			continue
		}
		m := MetaNode{
			ID:           metaID(layer, lc.Attribute, v),
			Attribute:    lc.Attribute,
			Value:        v,
			Layer:        layer,
			Collapsed:    lc.AutoCollapse,
			ChildNodeIDs: nodeIDs,
		}
		if metaBuckets != nil {
			m.ChildMetaIDs = dedupSorted(metaBuckets[v])
		}
		metas = append(metas, m)
	}
	return metas
}

func dedupSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
