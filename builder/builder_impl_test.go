// File: builder_impl_test.go
// Package builder_test contains functional tests for the network
// constructors: node counts, labels, table layout and error classes.
package builder_test

import (
	"testing"

	"github.com/dobots/aim-sub000/builder"
	"github.com/dobots/aim-sub000/factor"
	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/stretchr/testify/require"
)

// TestBuilders_Functional runs table-driven checks for each constructor.
func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cons       []builder.Constructor
		opts       []builder.BuilderOption
		wantVars   int
		wantFacs   int
		undirected bool
		tree       bool
	}{
		{"Sprinkler", []builder.Constructor{builder.Sprinkler()}, nil, 4, 4, false, false},
		{"TrafficLight", []builder.Constructor{builder.TrafficLight()}, nil, 2, 2, false, true},
		{"Chain(5)", []builder.Constructor{builder.Chain(5)}, nil, 5, 5, true, true},
		{"IsingGrid(2x3)", []builder.Constructor{builder.IsingGrid(2, 3, []int{0, 0, 1, 0, 1, 1})}, nil, 6, 6 + 7, true, false},
		{"IsingGrid(1x1)", []builder.Constructor{builder.IsingGrid(1, 1, []int{1})}, nil, 1, 1, true, true},
		{"NoisyImage(3x3)", []builder.Constructor{builder.NoisyImage(3, 3, 0.2)}, []builder.BuilderOption{builder.WithSeed(7)}, 9, 9 + 12, true, false},
		{"Sprinkler+Observe", []builder.Constructor{builder.Sprinkler(), builder.Observe(builder.LabelWetGrass, 1)}, nil, 4, 5, false, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g, err := builder.BuildGraph(nil, tc.opts, tc.cons...)
			require.NoError(t, err)
			require.Len(t, g.Variables(), tc.wantVars)
			require.Len(t, g.Factors(), tc.wantFacs)
			require.Equal(t, tc.undirected, g.IsUndirected())
			require.NoError(t, g.CheckFactorArity())

			g.Moralize()
			require.Equal(t, tc.tree, g.IsTree())
		})
	}
}

// TestSprinklerLayout checks labels and the child-first axis order.
func TestSprinklerLayout(t *testing.T) {
	g, err := builder.BuildGraph(nil, nil, builder.Sprinkler())
	require.NoError(t, err)

	w, err := builder.Lookup(g, builder.LabelWetGrass)
	require.NoError(t, err)
	s, _ := builder.Lookup(g, builder.LabelSprinkler)
	r, _ := builder.Lookup(g, builder.LabelRain)

	// the wet grass factor is the one whose first axis is w
	var found bool
	for _, f := range g.Factors() {
		n, err := g.Node(f)
		require.NoError(t, err)
		require.NoError(t, factor.ValidateCPT(n.Table, 0, 1e-9))
		if len(n.Scope) == 3 {
			found = true
			require.Equal(t, []factorgraph.NodeID{w, s, r}, n.Scope)
			v, err := n.Table.At3(1, 1, 1)
			require.NoError(t, err)
			require.Equal(t, 0.99, v)
			v, err = n.Table.At3(1, 0, 0)
			require.NoError(t, err)
			require.Equal(t, 0.0, v)
		}
	}
	require.True(t, found)
}

// TestChainLabels applies the configured label scheme.
func TestChainLabels(t *testing.T) {
	g, err := builder.BuildGraph(nil, []builder.BuilderOption{builder.WithPrefixLabels("x")}, builder.Chain(3))
	require.NoError(t, err)
	for _, l := range []string{"x0", "x1", "x2"} {
		_, err := g.Lookup(l)
		require.NoError(t, err, l)
	}
}

// TestNoisyImageDeterministic builds twice with the same seed.
func TestNoisyImageDeterministic(t *testing.T) {
	build := func() []float64 {
		g, err := builder.BuildGraph(nil, []builder.BuilderOption{builder.WithSeed(11)}, builder.NoisyImage(4, 4, 0.3))
		require.NoError(t, err)
		var out []float64
		for _, f := range g.Factors() {
			n, _ := g.Node(f)
			out = append(out, n.Table.Values()...)
		}
		require.NotEmpty(t, out)
		return out
	}
	require.Equal(t, build(), build())
}

// TestBuilderErrors asserts the sentinel class for invalid inputs.
func TestBuilderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cons []builder.Constructor
		opts []builder.BuilderOption
		want error
	}{
		{"Chain(1)", []builder.Constructor{builder.Chain(1)}, nil, builder.ErrTooFewVariables},
		{"Grid(0x2)", []builder.Constructor{builder.IsingGrid(0, 2, nil)}, nil, builder.ErrTooFewVariables},
		{"Grid count", []builder.Constructor{builder.IsingGrid(2, 2, []int{0, 1})}, nil, builder.ErrObservationCount},
		{"Grid value", []builder.Constructor{builder.IsingGrid(1, 2, []int{0, 2})}, nil, builder.ErrInvalidObservation},
		{"NoisyImage no rng", []builder.Constructor{builder.NoisyImage(2, 2, 0.1)}, nil, builder.ErrNeedRandSource},
		{"NoisyImage p", []builder.Constructor{builder.NoisyImage(2, 2, 1.5)}, []builder.BuilderOption{builder.WithSeed(1)}, builder.ErrInvalidProbability},
		{"Observe unknown", []builder.Constructor{builder.Sprinkler(), builder.Observe("fog", 1)}, nil, factorgraph.ErrUnknownNode},
		{"Observe state", []builder.Constructor{builder.Sprinkler(), builder.Observe(builder.LabelRain, 2)}, nil, factor.ErrInvalidDimension},
		{"nil constructor", []builder.Constructor{nil}, nil, builder.ErrConstructFailed},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := builder.BuildGraph(nil, tc.opts, tc.cons...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestApply adds evidence to an existing network.
func TestApply(t *testing.T) {
	g, err := builder.BuildGraph(nil, nil, builder.TrafficLight())
	require.NoError(t, err)
	require.NoError(t, builder.Apply(g, nil, builder.Observe(builder.LabelLight, 2)))
	require.Len(t, g.Factors(), 3)
	require.ErrorIs(t, builder.Apply(nil, nil), builder.ErrConstructFailed)
}
