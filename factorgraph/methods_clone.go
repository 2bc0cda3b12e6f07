// SPDX-License-Identifier: MIT
// File: methods_clone.go
// Role: deep copy of a Graph.
// Determinism:
//   - Arena order, edge order and ids are preserved exactly.
//   - The clone continues minting ids from the source counters, so ids added
//     to the clone never collide with ids already present in it.

package factorgraph

// Clone returns a deep copy: nodes, edge lists, scopes, factor tables,
// chords, elimination order and both id counters. The copy shares no mutable
// state with g.
// Complexity: O(V + E + Σ table sizes).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := &Graph{
		checked:  g.checked,
		nodes:    make([]*Node, len(g.nodes)),
		index:    make(map[NodeID]int, len(g.index)),
		label:    make(map[string]NodeID, len(g.label)),
		nextID:   g.nextID,
		nextEdge: g.nextEdge,
		chords:   append([]Chord(nil), g.chords...),
	}
	if g.order != nil {
		c.order = append([]NodeID(nil), g.order...)
	}
	for i, n := range g.nodes {
		cp := &Node{
			ID:         n.ID,
			Kind:       n.Kind,
			Label:      n.Label,
			Ordinality: n.Ordinality,
			Scope:      append([]NodeID(nil), n.Scope...),
			In:         append([]Edge(nil), n.In...),
			Out:        append([]Edge(nil), n.Out...),
		}
		if n.Table != nil {
			cp.Table = n.Table.Clone()
		}
		c.nodes[i] = cp
	}
	for id, pos := range g.index {
		c.index[id] = pos
	}
	for l, id := range g.label {
		c.label[l] = id
	}

	return c
}
