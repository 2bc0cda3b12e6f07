// SPDX-License-Identifier: MIT
// File: methods_nodes.go
// Role: node creation and lookup.
// Determinism:
//   - Variables/Factors/Nodes return arena (insertion) order.
// Concurrency:
//   - Mutators take the write lock; queries take the read lock.

package factorgraph

import (
	"fmt"

	"github.com/dobots/aim-sub000/tensor"
)

// AddVariable appends a Variable with the given number of states.
// Returns ErrInvalidDimension if ordinality < 1.
// Complexity: O(1) amortized.
func (g *Graph) AddVariable(ordinality int, label string) (NodeID, error) {
	if ordinality < 1 {
		return 0, fmt.Errorf("AddVariable(%q, %d): %w", label, ordinality, ErrInvalidDimension)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.insert(&Node{ID: g.nextID, Kind: KindVariable, Label: label, Ordinality: ordinality}), nil
}

// AddFactor appends a Factor holding table. The graph takes ownership of the
// table; Scope is filled as variables get connected.
// Returns ErrNilTable if table is nil.
func (g *Graph) AddFactor(table *tensor.Table, label string) (NodeID, error) {
	if table == nil {
		return 0, fmt.Errorf("AddFactor(%q): %w", label, ErrNilTable)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.insert(&Node{ID: g.nextID, Kind: KindFactor, Label: label, Table: table}), nil
}

// AddNode inserts a node whose ID is supplied by the caller. Edge lists and
// scope of n are discarded: edges are only created through AddEdge.
// Returns ErrDuplicateNode if the id is taken. The id counter advances past
// n.ID so minted ids never collide with it.
func (g *Graph) AddNode(n Node) (NodeID, error) {
	switch n.Kind {
	case KindVariable:
		if n.Ordinality < 1 {
			return 0, fmt.Errorf("AddNode(%d): %w", n.ID, ErrInvalidDimension)
		}
	case KindFactor:
		if n.Table == nil {
			return 0, fmt.Errorf("AddNode(%d): %w", n.ID, ErrNilTable)
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.index[n.ID]; ok {
		return 0, fmt.Errorf("AddNode(%d): %w", n.ID, ErrDuplicateNode)
	}
	n.In, n.Out, n.Scope = nil, nil, nil

	return g.insert(&n), nil
}

// insert places n in the arena. Caller holds the write lock.
func (g *Graph) insert(n *Node) NodeID {
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	if n.Kind == KindVariable && n.Label != "" {
		if _, ok := g.label[n.Label]; !ok {
			g.label[n.Label] = n.ID
		}
	}
	if n.ID >= g.nextID {
		g.nextID = n.ID + 1
	}

	return n.ID
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.lookup(id)
	if !ok {
		return nil, fmt.Errorf("Node(%d): %w", id, ErrUnknownNode)
	}
	return n, nil
}

// Variable returns the node with the given id if it is a variable.
func (g *Graph) Variable(id NodeID) (*Node, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	if n.Kind != KindVariable {
		return nil, fmt.Errorf("Variable(%d): %w", id, ErrNotVariable)
	}
	return n, nil
}

// Lookup returns the first variable registered under label.
func (g *Graph) Lookup(label string) (NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.label[label]
	if !ok {
		return 0, fmt.Errorf("Lookup(%q): %w", label, ErrUnknownNode)
	}
	return id, nil
}

// HasNode reports whether id exists.
func (g *Graph) HasNode(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[id]
	return ok
}

// lookup is the lock-free arena access. Caller holds a lock.
func (g *Graph) lookup(id NodeID) (*Node, bool) {
	pos, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[pos], true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Nodes returns a snapshot of the arena in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Variables returns variable ids in insertion order.
func (g *Graph) Variables() []NodeID { return g.ofKind(KindVariable) }

// Factors returns factor ids in insertion order.
func (g *Graph) Factors() []NodeID { return g.ofKind(KindFactor) }

func (g *Graph) ofKind(k Kind) []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []NodeID
	for _, n := range g.nodes {
		if n.Kind == k {
			out = append(out, n.ID)
		}
	}
	return out
}

// Neighbors returns the distinct neighbors of id (see Node.Neighbors).
func (g *Graph) Neighbors(id NodeID) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.lookup(id)
	if !ok {
		return nil, fmt.Errorf("Neighbors(%d): %w", id, ErrUnknownNode)
	}
	return n.Neighbors(), nil
}

// position returns the arena position of id, or -1. Caller holds a lock.
func (g *Graph) position(id NodeID) int {
	pos, ok := g.index[id]
	if !ok {
		return -1
	}
	return pos
}
