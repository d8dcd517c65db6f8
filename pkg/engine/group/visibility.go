package group

import "sort"

// Visibility is the resolved render visibility for one arena snapshot.
//
// Owner maps a hidden base node to the outermost collapsed meta-node that
// swallowed it; edge projection redirects endpoints through it. Nodes kept
// visible by the filter set have no owner even when a collapsed ancestor
// lists them.
type Visibility struct {
	HiddenNodes map[string]bool
	HiddenMetas map[string]bool
	Owner       map[string]string
}

// NodeVisible reports whether a base node is rendered.
func (v *Visibility) NodeVisible(id string) bool { return !v.HiddenNodes[id] }

// MetaVisible reports whether a meta-node is rendered.
func (v *Visibility) MetaVisible(id string) bool { return !v.HiddenMetas[id] }

// Resolve computes visibility over the arena. Collapsed meta-nodes are
// scanned from the highest layer downward, so an outer collapse wins: the
// outer meta-node stays visible, everything it lists as a descendant is
// hidden, and inner collapsed meta-nodes never become render targets of
// their own.
//
// filter, when non-nil, is the active search result set: matching nodes stay
// visible through any collapse.
func Resolve(arena []MetaNode, filter map[string]bool) *Visibility {
	vis := &Visibility{
		HiddenNodes: make(map[string]bool),
		HiddenMetas: make(map[string]bool),
		Owner:       make(map[string]string),
	}

	byID := make(map[string]*MetaNode, len(arena))
	for i := range arena {
		byID[arena[i].ID] = &arena[i]
	}

	// Highest layer first; ID order within a layer for determinism.
	ordered := make([]*MetaNode, 0, len(arena))
	for i := range arena {
		ordered = append(ordered, &arena[i])
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Layer != ordered[j].Layer {
			return ordered[i].Layer > ordered[j].Layer
		}
		return ordered[i].ID < ordered[j].ID
	})

	for _, m := range ordered {
		if !m.Collapsed || vis.HiddenMetas[m.ID] {
			continue
		}
		for _, nodeID := range m.ChildNodeIDs {
			if filter[nodeID] {
				continue
			}
			vis.HiddenNodes[nodeID] = true
			if _, owned := vis.Owner[nodeID]; !owned {
				vis.Owner[nodeID] = m.ID
			}
		}
		hideDescendantMetas(m, byID, vis.HiddenMetas)
	}

	return vis
}

// hideDescendantMetas hides every meta-node reachable through ChildMetaIDs.
func hideDescendantMetas(m *MetaNode, byID map[string]*MetaNode, hidden map[string]bool) {
	for _, childID := range m.ChildMetaIDs {
		if hidden[childID] {
			continue
		}
		hidden[childID] = true
		if child, ok := byID[childID]; ok {
			hideDescendantMetas(child, byID, hidden)
		}
	}
}
