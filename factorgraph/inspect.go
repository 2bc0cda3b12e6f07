// SPDX-License-Identifier: MIT
// File: inspect.go
// Role: read-only structural views of a Graph: dense adjacency export,
// singly-connected check, factor arity validation and a text dump.

package factorgraph

import (
	"fmt"
	"strings"

	"github.com/dobots/aim-sub000/tensor"
)

// AdjacencyTable exports the directed edge relation as an n×n 0/1 table over
// nodes in insertion order: cell (i, j) is 1 when node i has an edge to node j.
// The returned ids give the node for each row/column.
// Returns tensor.ErrInvalidDimension (wrapped) on an empty graph.
func (g *Graph) AdjacencyTable() (*tensor.Table, []NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := len(g.nodes)
	t, err := tensor.New(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("AdjacencyTable: %w", err)
	}
	ids := make([]NodeID, n)
	for i, node := range g.nodes {
		ids[i] = node.ID
		for _, e := range node.Out {
			j := g.position(e.Peer)
			t.SetLinear(i+j*n, 1)
		}
	}

	return t, ids, nil
}

// IsTree reports whether the undirected view of the graph is connected and has
// exactly V-1 distinct edges. An empty graph is not a tree.
// Complexity: O(V + E).
func (g *Graph) IsTree() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.nodes) == 0 {
		return false
	}
	edges := 0
	for _, n := range g.nodes {
		for _, peer := range n.Neighbors() {
			if g.position(peer) > g.position(n.ID) {
				edges++
			}
		}
	}
	if edges != len(g.nodes)-1 {
		return false
	}

	// BFS from the first node; a tree reaches every node.
	seen := map[NodeID]bool{g.nodes[0].ID: true}
	queue := []NodeID{g.nodes[0].ID}
	for len(queue) > 0 {
		cur, _ := g.lookup(queue[0])
		queue = queue[1:]
		for _, peer := range cur.Neighbors() {
			if !seen[peer] {
				seen[peer] = true
				queue = append(queue, peer)
			}
		}
	}

	return len(seen) == len(g.nodes)
}

// CheckFactorArity verifies every factor: table rank equals the number of
// scope variables and the node degree, and axis k has the ordinality of
// Scope[k]. The first violation is returned wrapped in ErrArityMismatch.
func (g *Graph) CheckFactorArity() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, n := range g.nodes {
		if n.Kind != KindFactor {
			continue
		}
		if n.Table.Rank() != len(n.Scope) || len(n.Scope) != n.Degree() {
			return fmt.Errorf("CheckFactorArity: factor %d[%s] has rank %d, scope %d, degree %d: %w",
				n.ID, n.Label, n.Table.Rank(), len(n.Scope), n.Degree(), ErrArityMismatch)
		}
		for k, v := range n.Scope {
			vn, ok := g.lookup(v)
			if !ok || vn.Kind != KindVariable {
				return fmt.Errorf("CheckFactorArity: factor %d axis %d bound to %d: %w", n.ID, k, v, ErrArityMismatch)
			}
			if n.Table.Dim(k) != vn.Ordinality {
				return fmt.Errorf("CheckFactorArity: factor %d[%s] axis %d has size %d, variable %d[%s] has %d states: %w",
					n.ID, n.Label, k, n.Table.Dim(k), v, vn.Label, vn.Ordinality, ErrArityMismatch)
			}
		}
	}

	return nil
}

// String prints one line per node in insertion order:
//
//	0[cloudy] (var): {4 5} {4 5}
//
// where the first set lists In peers and the second Out peers.
func (g *Graph) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var b strings.Builder
	for _, n := range g.nodes {
		fmt.Fprintf(&b, "%d[%s] (%s): {%s} {%s}\n", n.ID, n.Label, n.Kind, joinPeers(n.In), joinPeers(n.Out))
	}

	return b.String()
}

func joinPeers(edges []Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprint(e.Peer)
	}
	return strings.Join(parts, " ")
}
