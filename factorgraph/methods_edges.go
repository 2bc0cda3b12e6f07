// SPDX-License-Identifier: MIT
// File: methods_edges.go
// Role: directed edge insertion, symmetry check and moralization.
// Policy:
//   - Checked graphs reject same-kind edges (ErrNotBipartite) and treat a
//     repeated identical directed edge as a no-op returning the existing id.
//   - Fast graphs skip both checks and append blindly.
//   - Endpoints must exist under both policies (ErrUnknownNode).

package factorgraph

import (
	"fmt"
	"sort"
)

// Arc is a directed edge as returned by Edges.
type Arc struct {
	ID  EdgeID
	Src NodeID
	Dst NodeID
}

// AddEdge inserts the directed edge src→dst, updating src.Out and dst.In.
// When one endpoint is a factor and the other a variable, the variable is
// appended to the factor's Scope the first time the two are connected, so
// the factor's table axis k corresponds to the k-th connected variable.
// Complexity: O(deg) checked, O(1) fast.
func (g *Graph) AddEdge(src, dst NodeID) (EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addEdgeLocked(src, dst)
}

// Connect adds factor→v and v→factor for every v in order.
// Stops at the first error; edges inserted before it are kept.
func (g *Graph) Connect(factor NodeID, vars ...NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, v := range vars {
		if _, err := g.addEdgeLocked(factor, v); err != nil {
			return err
		}
		if _, err := g.addEdgeLocked(v, factor); err != nil {
			return err
		}
	}

	return nil
}

// addEdgeLocked is AddEdge without locking. Caller holds the write lock.
func (g *Graph) addEdgeLocked(src, dst NodeID) (EdgeID, error) {
	s, ok := g.lookup(src)
	if !ok {
		return 0, fmt.Errorf("AddEdge(%d→%d): source: %w", src, dst, ErrUnknownNode)
	}
	d, ok := g.lookup(dst)
	if !ok {
		return 0, fmt.Errorf("AddEdge(%d→%d): destination: %w", src, dst, ErrUnknownNode)
	}
	if g.checked {
		if s.Kind == d.Kind {
			return 0, fmt.Errorf("AddEdge(%d→%d): %s→%s: %w", src, dst, s.Kind, d.Kind, ErrNotBipartite)
		}
		for _, e := range s.Out {
			if e.Peer == dst {
				return e.ID, nil
			}
		}
	}

	id := g.nextEdge
	g.nextEdge++
	s.Out = append(s.Out, Edge{Peer: dst, ID: id})
	d.In = append(d.In, Edge{Peer: src, ID: id})

	switch {
	case s.Kind == KindFactor && d.Kind == KindVariable:
		bindScope(s, dst)
	case s.Kind == KindVariable && d.Kind == KindFactor:
		bindScope(d, src)
	}

	return id, nil
}

// bindScope appends v to the factor's scope unless already bound.
func bindScope(f *Node, v NodeID) {
	if f.AxisOf(v) < 0 {
		f.Scope = append(f.Scope, v)
	}
}

// IsUndirected reports whether every In peer of every node is also an Out
// peer and vice versa. Belief propagation requires this.
// Complexity: O(Σ deg²) in the worst case.
func (g *Graph) IsUndirected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, n := range g.nodes {
		for _, e := range n.In {
			if !n.HasOut(e.Peer) {
				return false
			}
		}
		for _, e := range n.Out {
			if !n.HasIn(e.Peer) {
				return false
			}
		}
	}

	return true
}

// Moralize synthesizes the missing direction of every one-way edge. Factor
// tables and scopes are unchanged. Calling it twice yields the same edge set.
func (g *Graph) Moralize() {
	g.mu.Lock()
	defer g.mu.Unlock()

	type pair struct{ src, dst NodeID }
	var missing []pair
	for _, n := range g.nodes {
		for _, e := range n.In {
			if !n.HasOut(e.Peer) {
				missing = append(missing, pair{n.ID, e.Peer})
			}
		}
	}
	for _, m := range missing {
		s, _ := g.lookup(m.src)
		if s.HasOut(m.dst) {
			continue
		}
		// endpoints are known to exist; the only possible failure is a
		// same-kind edge, which a checked graph could never have stored.
		_, _ = g.addEdgeLocked(m.src, m.dst)
	}
}

// Edges returns every directed edge ordered by EdgeID.
func (g *Graph) Edges() []Arc {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Arc
	for _, n := range g.nodes {
		for _, e := range n.Out {
			out = append(out, Arc{ID: e.ID, Src: n.ID, Dst: e.Peer})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
