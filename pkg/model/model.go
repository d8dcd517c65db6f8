// Package model defines the attributed entity graph consumed by the layout
// engine.
//
// A [Graph] is an immutable-per-tick snapshot of nodes and edges together with
// the adjacency index built from them. Upstream data changes never mutate an
// existing snapshot - the whole graph is rebuilt with [Build] and swapped in
// between frames. This keeps the engine free of locking: there is exactly one
// writer per tick and readers only ever see a frozen snapshot.
package model

// Attribute is a single named attribute on a node. Tabular sources may map a
// cell to several values (multi-value cells), so Values is always a slice;
// single-valued attributes hold exactly one entry. Attribute order on a node
// is the column order of the source and is preserved.
type Attribute struct {
	Name   string   `json:"name" bson:"name"`
	Values []string `json:"values" bson:"values"`
}

// Node is a vertex in the entity graph. Nodes are owned by the upstream data
// pipeline and are read-only to the layout engine.
//
// The zero value is not usable - ID must be set before adding to a graph.
type Node struct {
	ID         string      `json:"id" bson:"id"`
	Label      string      `json:"label,omitempty" bson:"label,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Tags       []string    `json:"tags,omitempty" bson:"tags,omitempty"`

	// Stub marks nodes created implicitly by link resolution upstream,
	// when a link cell referenced an entity that had no row of its own.
	Stub bool `json:"stub,omitempty" bson:"stub,omitempty"`

	// Timestamp is an optional numeric timestamp carried through from the
	// source data. Nil when the source has no time column.
	Timestamp *float64 `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// AttrValues returns the values of the named attribute, or nil if the node
// does not carry it. The returned slice is the node's own - treat it as
// read-only.
func (n *Node) AttrValues(name string) []string {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return n.Attributes[i].Values
		}
	}
	return nil
}

// DistinctAttrValues returns the distinct non-empty values of the named
// attribute, in first-seen order. Grouping uses this to decide whether a
// node's membership is unambiguous.
func (n *Node) DistinctAttrValues(name string) []string {
	values := n.AttrValues(name)
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var distinct []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		distinct = append(distinct, v)
	}
	return distinct
}

// HasTag reports whether the node carries the given tag.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Edge is a directed connection between two nodes. Source and Target must
// reference nodes present in the same snapshot; [Build] silently drops edges
// that do not.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}
