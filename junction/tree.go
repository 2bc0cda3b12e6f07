// SPDX-License-Identifier: MIT

// Package junction turns a factor graph with loops into a tree-structured
// factor graph on which sum-product belief propagation is exact.
//
// Construction (New):
//  1. Copy the source graph, Moralize and Triangulate the copy once.
//  2. Read the maximal cliques off the perfect elimination order: eliminating
//     v yields the candidate {v} ∪ {neighbours eliminated after v}; candidates
//     contained in another candidate are dropped.
//  3. Join the cliques by a maximum-weight spanning tree on separator sizes.
//     The result satisfies the running intersection property.
//  4. Emit the clique graph: one compound variable per clique whose states
//     enumerate the joint states of its members (tensor stride order), one
//     unary factor per clique holding the product of the source factors
//     assigned to it, and one pairwise 0/1 factor per tree edge that is 1
//     exactly when the two clique states agree on the separator.
//
// Running bp on Tree.Graph() then yields the clique marginals, and Marginal
// projects them back onto source variables.
package junction

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/dobots/aim-sub000/tensor"
)

// Sentinel errors.
var (
	// ErrNoVariables indicates a source graph without variables.
	ErrNoVariables = errors.New("junction: graph has no variables")

	// ErrUncoveredFactor indicates a factor whose scope lies in no clique.
	ErrUncoveredFactor = errors.New("junction: factor scope not covered by any clique")
)

// Separator is a clique tree edge between cliques Left and Right.
type Separator struct {
	Left, Right int
	Vars        []factorgraph.NodeID
}

// clique is one maximal clique and its compound variable.
type clique struct {
	members []factorgraph.NodeID // source variables in insertion order
	dims    []int                // ordinality per member
	id      factorgraph.NodeID   // compound variable in the clique graph
}

// Tree is the junction tree built from one source graph.
type Tree struct {
	moral   *factorgraph.Graph
	graph   *factorgraph.Graph
	cliques []clique
	seps    []Separator
	home    map[factorgraph.NodeID]int // source variable → first clique holding it
}

// New builds the junction tree of g. g itself is not modified.
func New(g *factorgraph.Graph) (*Tree, error) {
	moral := g.Clone()
	moral.Moralize()
	if err := moral.CheckFactorArity(); err != nil {
		return nil, fmt.Errorf("junction.New: %w", err)
	}
	if _, err := moral.Triangulate(); err != nil {
		return nil, fmt.Errorf("junction.New: %w", err)
	}
	if len(moral.Variables()) == 0 {
		return nil, fmt.Errorf("junction.New: %w", ErrNoVariables)
	}

	t := &Tree{moral: moral, home: make(map[factorgraph.NodeID]int)}
	if err := t.extractCliques(); err != nil {
		return nil, err
	}
	t.linkCliques()
	if err := t.emit(); err != nil {
		return nil, err
	}

	return t, nil
}

// extractCliques reads the maximal cliques off the elimination order.
func (t *Tree) extractCliques() error {
	elim := t.moral.EliminationOrder()
	adj := t.moral.InteractionGraph()

	pos := make(map[factorgraph.NodeID]int, len(elim))
	for i, v := range elim {
		pos[v] = i
	}
	rank := make(map[factorgraph.NodeID]int)
	for i, v := range t.moral.Variables() {
		rank[v] = i
	}

	var cands []map[factorgraph.NodeID]struct{}
	for i, v := range elim {
		set := map[factorgraph.NodeID]struct{}{v: {}}
		for _, u := range adj[v] {
			if pos[u] > i {
				set[u] = struct{}{}
			}
		}
		cands = append(cands, set)
	}

	for i, c := range cands {
		if containedElsewhere(cands, i) {
			continue
		}
		members := make([]factorgraph.NodeID, 0, len(c))
		for v := range c {
			members = append(members, v)
		}
		sort.Slice(members, func(a, b int) bool { return rank[members[a]] < rank[members[b]] })

		dims := make([]int, len(members))
		for k, v := range members {
			n, err := t.moral.Variable(v)
			if err != nil {
				return fmt.Errorf("junction.New: %w", err)
			}
			dims[k] = n.Ordinality
			if _, ok := t.home[v]; !ok {
				t.home[v] = len(t.cliques)
			}
		}
		t.cliques = append(t.cliques, clique{members: members, dims: dims})
	}

	return nil
}

// containedElsewhere reports whether cands[i] is a subset of another
// candidate. Of two equal candidates the later one is dropped.
func containedElsewhere(cands []map[factorgraph.NodeID]struct{}, i int) bool {
	for j, other := range cands {
		if j == i || len(other) < len(cands[i]) {
			continue
		}
		if len(other) == len(cands[i]) && j > i {
			continue
		}
		subset := true
		for v := range cands[i] {
			if _, ok := other[v]; !ok {
				subset = false
				break
			}
		}
		if subset {
			return true
		}
	}
	return false
}

// linkCliques builds the separators of the maximum spanning tree.
func (t *Tree) linkCliques() {
	shared := func(a, b int) []factorgraph.NodeID {
		var out []factorgraph.NodeID
		for _, v := range t.cliques[a].members {
			if t.cliques[b].axisOf(v) >= 0 {
				out = append(out, v)
			}
		}
		return out
	}
	for _, l := range spanningTree(len(t.cliques), func(a, b int) int { return len(shared(a, b)) }) {
		t.seps = append(t.seps, Separator{Left: l.a, Right: l.b, Vars: shared(l.a, l.b)})
	}
}

// emit creates the clique graph.
func (t *Tree) emit() error {
	g := factorgraph.NewGraph()

	pots := make([]*tensor.Table, len(t.cliques))
	for i := range t.cliques {
		c := &t.cliques[i]
		pot, err := tensor.New(c.dims...)
		if err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
		if err = pot.Fill(1); err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
		pots[i] = pot
		if c.id, err = g.AddVariable(pot.Len(), c.label(t.moral)); err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
	}

	for _, f := range t.moral.Factors() {
		n, err := t.moral.Node(f)
		if err != nil {
			return fmt.Errorf("junction.New: %w", err)
		}
		home := t.cover(n.Scope)
		if home < 0 {
			return fmt.Errorf("junction.New: factor %d[%s]: %w", n.ID, n.Label, ErrUncoveredFactor)
		}
		axes := make([]int, len(n.Scope))
		for k, v := range n.Scope {
			axes[k] = t.cliques[home].axisOf(v)
		}
		if err = pots[home].MultiplyBroadcast(n.Table, axes); err != nil {
			return fmt.Errorf("junction.New: factor %d[%s]: %w", n.ID, n.Label, err)
		}
	}

	for i, c := range t.cliques {
		flat, err := tensor.FromValues([]int{pots[i].Len()}, pots[i].Values())
		if err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
		f, err := g.AddFactor(flat, "ψ"+c.label(t.moral))
		if err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
		if err = g.Connect(f, c.id); err != nil {
			return fmt.Errorf("junction.New: clique %d: %w", i, err)
		}
	}

	for _, s := range t.seps {
		agree, err := t.consistency(s, pots[s.Left], pots[s.Right])
		if err != nil {
			return fmt.Errorf("junction.New: separator %d-%d: %w", s.Left, s.Right, err)
		}
		f, err := g.AddFactor(agree, fmt.Sprintf("sep%d-%d", s.Left, s.Right))
		if err != nil {
			return fmt.Errorf("junction.New: separator %d-%d: %w", s.Left, s.Right, err)
		}
		if err = g.Connect(f, t.cliques[s.Left].id, t.cliques[s.Right].id); err != nil {
			return fmt.Errorf("junction.New: separator %d-%d: %w", s.Left, s.Right, err)
		}
	}
	t.graph = g

	return nil
}

// consistency returns the [|L|, |R|] table that is 1 when the compound states
// agree on every separator variable. left and right only supply the shapes
// used to decode compound states.
func (t *Tree) consistency(s Separator, left, right *tensor.Table) (*tensor.Table, error) {
	nl, nr := left.Len(), right.Len()
	agree, err := tensor.New(nl, nr)
	if err != nil {
		return nil, err
	}
	lc, rc := t.cliques[s.Left], t.cliques[s.Right]
	for a := 0; a < nl; a++ {
		la, _ := left.Unlinearize(a)
		for b := 0; b < nr; b++ {
			rb, _ := right.Unlinearize(b)
			same := true
			for _, v := range s.Vars {
				if la[lc.axisOf(v)] != rb[rc.axisOf(v)] {
					same = false
					break
				}
			}
			if same {
				agree.SetLinear(a+b*nl, 1)
			}
		}
	}

	return agree, nil
}

// cover returns the first clique containing every variable of scope, or -1.
func (t *Tree) cover(scope []factorgraph.NodeID) int {
	for i, c := range t.cliques {
		ok := true
		for _, v := range scope {
			if c.axisOf(v) < 0 {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

func (c *clique) axisOf(v factorgraph.NodeID) int {
	for k, m := range c.members {
		if m == v {
			return k
		}
	}
	return -1
}

// label joins member labels (or ids) as "{a,b,c}".
func (c *clique) label(g *factorgraph.Graph) string {
	parts := make([]string, len(c.members))
	for k, v := range c.members {
		if n, err := g.Node(v); err == nil && n.Label != "" {
			parts[k] = n.Label
		} else {
			parts[k] = fmt.Sprint(v)
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Graph returns the tree-structured clique graph; tick it with a bp.Engine.
func (t *Tree) Graph() *factorgraph.Graph { return t.graph }

// Moral returns the moralized and triangulated copy of the source graph.
func (t *Tree) Moral() *factorgraph.Graph { return t.moral }

// Cliques returns the members of every clique, in clique order.
func (t *Tree) Cliques() [][]factorgraph.NodeID {
	out := make([][]factorgraph.NodeID, len(t.cliques))
	for i, c := range t.cliques {
		out[i] = append([]factorgraph.NodeID(nil), c.members...)
	}
	return out
}

// Separators returns the clique tree edges.
func (t *Tree) Separators() []Separator {
	out := make([]Separator, len(t.seps))
	for i, s := range t.seps {
		out[i] = Separator{Left: s.Left, Right: s.Right, Vars: append([]factorgraph.NodeID(nil), s.Vars...)}
	}
	return out
}

// CliqueOf returns the index of the first clique containing source variable v.
func (t *Tree) CliqueOf(v factorgraph.NodeID) (int, error) {
	c, ok := t.home[v]
	if !ok {
		return 0, fmt.Errorf("CliqueOf(%d): %w", v, factorgraph.ErrUnknownNode)
	}
	return c, nil
}

// CliqueVariable returns the compound variable of clique i in Graph().
func (t *Tree) CliqueVariable(i int) (factorgraph.NodeID, error) {
	if i < 0 || i >= len(t.cliques) {
		return 0, fmt.Errorf("CliqueVariable(%d): %w", i, factorgraph.ErrUnknownNode)
	}
	return t.cliques[i].id, nil
}

// Marginal projects the clique marginal computed by e onto source variable v.
// e must have ticked Graph() at least once.
func (t *Tree) Marginal(e *bp.Engine, v factorgraph.NodeID) ([]float64, error) {
	ci, err := t.CliqueOf(v)
	if err != nil {
		return nil, err
	}
	c := t.cliques[ci]
	joint, err := e.Marginal(c.id)
	if err != nil {
		return nil, fmt.Errorf("Tree.Marginal(%d): %w", v, err)
	}
	tb, err := tensor.FromValues(c.dims, joint)
	if err != nil {
		return nil, fmt.Errorf("Tree.Marginal(%d): %w", v, err)
	}
	out, err := tb.SumOnto(c.axisOf(v))
	if err != nil {
		return nil, fmt.Errorf("Tree.Marginal(%d): %w", v, err)
	}

	return out, nil
}
