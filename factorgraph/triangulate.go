// SPDX-License-Identifier: MIT
// File: triangulate.go
// Role: chordalization of the variable interaction graph.
//
// The interaction (primal) graph has one vertex per variable and an edge
// between two variables whenever they share a factor, plus every chord
// recorded by a previous Triangulate. Chords are kept on the Graph instead of
// being inserted as variable–variable edges, so the factor graph stays
// bipartite.
//
// Algorithm:
//  1. Maximum cardinality search numbers the vertices; ties go to the vertex
//     inserted first. The reverse visit order is the elimination order.
//  2. Elimination game: eliminating v connects all of its not yet eliminated
//     neighbours pairwise. Every new pair is a chord.
//  3. The filled graph is chordal and the elimination order is perfect for it.
//
// Complexity: O(V² + V·Δ²) for V variables of maximum interaction degree Δ.

package factorgraph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotChordal indicates the filled interaction graph failed verification.
var ErrNotChordal = errors.New("factorgraph: interaction graph is not chordal")

// Triangulate adds fill-in chords until the interaction graph has no chordless
// cycle longer than 3. It returns the chords added by this call; Chords
// returns all of them. Calling it on a chordal graph adds nothing.
func (g *Graph) Triangulate() ([]Chord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	adj := g.interactionLocked()
	order := g.mcsLocked(adj)

	// reverse visit order is the elimination order
	elim := make([]NodeID, len(order))
	for i, v := range order {
		elim[len(order)-1-i] = v
	}

	eliminated := make(map[NodeID]bool, len(elim))
	var added []Chord
	for _, v := range elim {
		eliminated[v] = true
		var rest []NodeID
		for u := range adj[v] {
			if !eliminated[u] {
				rest = append(rest, u)
			}
		}
		g.sortByPosition(rest)
		for i := 0; i < len(rest); i++ {
			for j := i + 1; j < len(rest); j++ {
				a, b := rest[i], rest[j]
				if _, ok := adj[a][b]; ok {
					continue
				}
				adj[a][b] = struct{}{}
				adj[b][a] = struct{}{}
				added = append(added, Chord{U: a, V: b})
			}
		}
	}
	g.chords = append(g.chords, added...)
	g.order = elim

	if !isPerfectOrder(adj, elim) {
		return added, fmt.Errorf("Triangulate: %w", ErrNotChordal)
	}

	return added, nil
}

// Chords returns every fill-in chord recorded on the graph.
func (g *Graph) Chords() []Chord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Chord, len(g.chords))
	copy(out, g.chords)
	return out
}

// EliminationOrder returns the perfect elimination order computed by the last
// Triangulate, or nil if the graph was never triangulated.
func (g *Graph) EliminationOrder() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.order == nil {
		return nil
	}
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// InteractionGraph returns the interaction graph including chords. Neighbour
// lists are in node insertion order.
func (g *Graph) InteractionGraph() map[NodeID][]NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	adj := g.interactionLocked()
	out := make(map[NodeID][]NodeID, len(adj))
	for v, set := range adj {
		list := make([]NodeID, 0, len(set))
		for u := range set {
			list = append(list, u)
		}
		g.sortByPosition(list)
		out[v] = list
	}

	return out
}

// IsChordal reports whether the interaction graph (with chords) is chordal.
func (g *Graph) IsChordal() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	adj := g.interactionLocked()
	order := g.mcsLocked(adj)
	elim := make([]NodeID, len(order))
	for i, v := range order {
		elim[len(order)-1-i] = v
	}

	return isPerfectOrder(adj, elim)
}

// interactionLocked builds the interaction graph. Caller holds a lock.
func (g *Graph) interactionLocked() map[NodeID]map[NodeID]struct{} {
	adj := make(map[NodeID]map[NodeID]struct{})
	for _, n := range g.nodes {
		if n.Kind == KindVariable {
			adj[n.ID] = make(map[NodeID]struct{})
		}
	}
	link := func(a, b NodeID) {
		if a == b {
			return
		}
		if _, ok := adj[a]; !ok {
			return
		}
		if _, ok := adj[b]; !ok {
			return
		}
		adj[a][b] = struct{}{}
		adj[b][a] = struct{}{}
	}
	for _, n := range g.nodes {
		if n.Kind != KindFactor {
			continue
		}
		vars := n.Neighbors()
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				link(vars[i], vars[j])
			}
		}
	}
	for _, c := range g.chords {
		link(c.U, c.V)
	}

	return adj
}

// mcsLocked runs maximum cardinality search and returns the visit order.
// Ties are broken by arena position, which makes the result deterministic.
func (g *Graph) mcsLocked(adj map[NodeID]map[NodeID]struct{}) []NodeID {
	var vars []NodeID
	for _, n := range g.nodes {
		if n.Kind == KindVariable {
			vars = append(vars, n.ID)
		}
	}
	weight := make(map[NodeID]int, len(vars))
	visited := make(map[NodeID]bool, len(vars))
	order := make([]NodeID, 0, len(vars))
	for len(order) < len(vars) {
		best, bestW := NodeID(-1), -1
		for _, v := range vars {
			if !visited[v] && weight[v] > bestW {
				best, bestW = v, weight[v]
			}
		}
		visited[best] = true
		order = append(order, best)
		for u := range adj[best] {
			if !visited[u] {
				weight[u]++
			}
		}
	}

	return order
}

// isPerfectOrder reports whether, for every v, the neighbours of v that are
// eliminated after v form a clique.
func isPerfectOrder(adj map[NodeID]map[NodeID]struct{}, elim []NodeID) bool {
	pos := make(map[NodeID]int, len(elim))
	for i, v := range elim {
		pos[v] = i
	}
	for _, v := range elim {
		var later []NodeID
		for u := range adj[v] {
			if pos[u] > pos[v] {
				later = append(later, u)
			}
		}
		for i := 0; i < len(later); i++ {
			for j := i + 1; j < len(later); j++ {
				if _, ok := adj[later[i]][later[j]]; !ok {
					return false
				}
			}
		}
	}

	return true
}

// sortByPosition orders ids by arena position. Caller holds a lock.
func (g *Graph) sortByPosition(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return g.position(ids[i]) < g.position(ids[j]) })
}
