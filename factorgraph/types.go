// SPDX-License-Identifier: MIT

// Package factorgraph defines the bipartite Graph of Variable and Factor
// nodes used by the inference engine.
//
// Nodes live in a single arena (insertion-ordered slice) and refer to each
// other by NodeID, never by pointer. Every node keeps two edge lists:
// In (edges whose destination is this node) and Out (edges whose source is
// this node). A directed Bayesian network is built with one-way edges and then
// symmetrized by Moralize; belief propagation requires IsUndirected.
//
// Identity:
//
//	NodeIDs are minted by a per-graph counter starting at 0 and are never
//	reused. EdgeIDs follow the same rule. Two graphs never share counters.
//
// Errors:
//
//	ErrUnknownNode       - an operation referenced an id not in the graph.
//	ErrDuplicateNode     - AddNode with an id that is already taken.
//	ErrInvalidDimension  - a variable ordinality below 1.
//	ErrNilTable          - a factor without a table.
//	ErrNotBipartite      - an edge between two nodes of the same kind.
//	ErrArityMismatch     - a factor table that does not match its scope.
//	ErrNotVariable       - a variable was required but the id names a factor.
package factorgraph

import (
	"errors"
	"sync"

	"github.com/dobots/aim-sub000/tensor"
)

// Sentinel errors for graph construction and validation.
var (
	// ErrUnknownNode indicates an operation referenced a node id that does not exist.
	ErrUnknownNode = errors.New("factorgraph: unknown node")

	// ErrDuplicateNode indicates an externally supplied node id is already in use.
	ErrDuplicateNode = errors.New("factorgraph: duplicate node")

	// ErrInvalidDimension indicates a variable ordinality below 1.
	ErrInvalidDimension = errors.New("factorgraph: ordinality must be > 0")

	// ErrNilTable indicates a factor node without a table.
	ErrNilTable = errors.New("factorgraph: factor table is nil")

	// ErrNotBipartite indicates an edge between two variables or two factors.
	ErrNotBipartite = errors.New("factorgraph: edge must join a variable and a factor")

	// ErrArityMismatch indicates a factor whose table rank differs from its
	// degree, or whose axis k differs from the ordinality of Scope[k].
	ErrArityMismatch = errors.New("factorgraph: factor table does not match its variables")

	// ErrNotVariable indicates a factor id where a variable id was required.
	ErrNotVariable = errors.New("factorgraph: node is not a variable")
)

// NodeID identifies a node inside one Graph.
type NodeID int

// EdgeID identifies a directed edge inside one Graph.
type EdgeID int

// Kind tags a node as a Variable or a Factor.
type Kind uint8

const (
	// KindVariable marks a discrete random variable.
	KindVariable Kind = iota
	// KindFactor marks a potential function over its adjacent variables.
	KindFactor
)

// String returns "var" or "factor".
func (k Kind) String() string {
	if k == KindFactor {
		return "factor"
	}
	return "var"
}

// Edge is one endpoint entry in a node's In or Out list.
type Edge struct {
	// Peer is the node on the other end of the edge.
	Peer NodeID
	// ID is the directed edge identity; the reverse direction has its own ID.
	ID EdgeID
}

// Node is a Variable or a Factor.
//
// Variables carry Ordinality (number of discrete states). Factors carry a
// Table whose axis k ranges over the states of Scope[k]; Scope grows in the
// order in which variables are first connected to the factor.
type Node struct {
	ID    NodeID
	Kind  Kind
	Label string

	// Ordinality is the number of states of a variable (0 for factors).
	Ordinality int

	// Table is the potential of a factor (nil for variables).
	Table *tensor.Table

	// Scope lists the variables of a factor, one per table axis.
	Scope []NodeID

	// In holds edges peer→this; Out holds edges this→peer.
	In  []Edge
	Out []Edge
}

// HasIn reports whether an edge peer→n exists.
func (n *Node) HasIn(peer NodeID) bool { return hasPeer(n.In, peer) }

// HasOut reports whether an edge n→peer exists.
func (n *Node) HasOut(peer NodeID) bool { return hasPeer(n.Out, peer) }

// Neighbors returns the distinct peers of n: Out peers first in insertion
// order, then In peers not already listed.
func (n *Node) Neighbors() []NodeID {
	out := make([]NodeID, 0, len(n.Out))
	seen := make(map[NodeID]struct{}, len(n.Out)+len(n.In))
	for _, e := range n.Out {
		if _, ok := seen[e.Peer]; !ok {
			seen[e.Peer] = struct{}{}
			out = append(out, e.Peer)
		}
	}
	for _, e := range n.In {
		if _, ok := seen[e.Peer]; !ok {
			seen[e.Peer] = struct{}{}
			out = append(out, e.Peer)
		}
	}
	return out
}

// Degree returns the number of distinct neighbors.
func (n *Node) Degree() int { return len(n.Neighbors()) }

// AxisOf returns the table axis bound to variable v, or -1.
func (n *Node) AxisOf(v NodeID) int {
	for k, s := range n.Scope {
		if s == v {
			return k
		}
	}
	return -1
}

func hasPeer(edges []Edge, peer NodeID) bool {
	for _, e := range edges {
		if e.Peer == peer {
			return true
		}
	}
	return false
}

// Chord is a fill-in edge between two variables added by Triangulate.
// U precedes V in node insertion order.
type Chord struct {
	U, V NodeID
}

// Option configures a Graph before creation.
type Option func(g *Graph)

// DefaultChecked is the default edge-insertion policy.
const DefaultChecked = true

// WithChecked selects the edge-insertion policy. The checked policy rejects
// variable–variable and factor–factor edges and ignores repeated identical
// edges. The fast policy skips both checks and appends blindly; endpoint
// existence is still verified because the arena lookup needs it.
func WithChecked(checked bool) Option {
	return func(g *Graph) { g.checked = checked }
}

// Graph is the bipartite factor graph.
//
// mu guards the arena, the counters and the per-node edge lists. Node
// pointers handed out by Node are shared with the graph: callers must not
// mutate them while another goroutine mutates the graph.
type Graph struct {
	mu sync.RWMutex

	checked bool

	nodes []*Node           // arena in insertion order
	index map[NodeID]int    // NodeID → arena position
	label map[string]NodeID // first variable registered under a label

	nextID   NodeID // next NodeID to mint
	nextEdge EdgeID // next EdgeID to mint

	chords []Chord  // fill-in edges from Triangulate
	order  []NodeID // elimination order from the last Triangulate
}

// NewGraph creates an empty Graph.
// Complexity: O(1).
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		checked: DefaultChecked,
		index:   make(map[NodeID]int),
		label:   make(map[string]NodeID),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Checked reports the edge-insertion policy.
func (g *Graph) Checked() bool { return g.checked }
