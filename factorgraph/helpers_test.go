// SPDX-License-Identifier: MIT
// Package factorgraph_test contains fixtures shared by the graph tests.

package factorgraph_test

import (
	"testing"

	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/dobots/aim-sub000/tensor"
	"github.com/stretchr/testify/require"
)

// mustTable builds a table filled with v, failing the test on error.
func mustTable(t *testing.T, v float64, dims ...int) *tensor.Table {
	t.Helper()
	tb, err := tensor.New(dims...)
	require.NoError(t, err)
	require.NoError(t, tb.Fill(v))
	return tb
}

// cycle4 builds binary variables A, B, C, D joined in a ring by pairwise
// factors AB, BC, CD, DA (already undirected).
func cycle4(t *testing.T) (*factorgraph.Graph, []factorgraph.NodeID) {
	t.Helper()
	g := factorgraph.NewGraph()
	vars := make([]factorgraph.NodeID, 4)
	for i, l := range []string{"A", "B", "C", "D"} {
		id, err := g.AddVariable(2, l)
		require.NoError(t, err)
		vars[i] = id
	}
	for i := range vars {
		f, err := g.AddFactor(mustTable(t, 1, 2, 2), "")
		require.NoError(t, err)
		require.NoError(t, g.Connect(f, vars[i], vars[(i+1)%4]))
	}
	return g, vars
}

// directedPair builds parent → factor → child with one-way edges only.
func directedPair(t *testing.T) (*factorgraph.Graph, factorgraph.NodeID, factorgraph.NodeID, factorgraph.NodeID) {
	t.Helper()
	g := factorgraph.NewGraph()
	parent, err := g.AddVariable(2, "parent")
	require.NoError(t, err)
	child, err := g.AddVariable(3, "child")
	require.NoError(t, err)
	f, err := g.AddFactor(mustTable(t, 1, 3, 2), "cpt")
	require.NoError(t, err)

	_, err = g.AddEdge(f, child)
	require.NoError(t, err)
	_, err = g.AddEdge(parent, f)
	require.NoError(t, err)
	return g, parent, child, f
}
