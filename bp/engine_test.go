// SPDX-License-Identifier: MIT
// Package bp_test verifies message passing, convergence and the engine
// state machine on small networks.

package bp_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/builder"
	"github.com/dobots/aim-sub000/factor"
	"github.com/dobots/aim-sub000/factorgraph"
)

var (
	approx = cmpopts.EquateApprox(0, 1e-9)
	loose  = cmpopts.EquateApprox(0, 1e-6)
)

// moralized builds the constructors' graph and moralizes it.
func moralized(t *testing.T, cons ...builder.Constructor) *factorgraph.Graph {
	t.Helper()
	g, err := builder.BuildGraph(nil, nil, cons...)
	require.NoError(t, err)
	g.Moralize()
	return g
}

func label(t *testing.T, g *factorgraph.Graph, l string) factorgraph.NodeID {
	t.Helper()
	id, err := g.Lookup(l)
	require.NoError(t, err)
	return id
}

// TestLeafUniformMessage checks that a leaf variable sends exact ones on the
// first tick.
func TestLeafUniformMessage(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	hit := label(t, g, builder.LabelHit)
	peers, err := g.Neighbors(hit)
	require.NoError(t, err)
	require.Len(t, peers, 1)

	e := bp.New()
	require.NoError(t, e.Tick(g))
	msg, ok := e.Message(hit, peers[0])
	require.True(t, ok)
	require.Equal(t, []float64{1, 1}, msg)
}

// TestTrafficLight runs BP on the two-variable tree.
func TestTrafficLight(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	e := bp.New()
	require.NoError(t, e.Run(context.Background(), g, 10))
	require.True(t, e.Converged())
	require.Equal(t, bp.StateConverged, e.State())
	require.LessOrEqual(t, e.Ticks(), 4)

	got, err := e.Marginal(label(t, g, builder.LabelHit))
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0.428, 0.572}, got, approx); diff != "" {
		t.Fatalf("P(hit) mismatch (-want +got):\n%s", diff)
	}
	got, err = e.Marginal(label(t, g, builder.LabelLight))
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0.2, 0.1, 0.7}, got, approx); diff != "" {
		t.Fatalf("P(light) mismatch (-want +got):\n%s", diff)
	}
}

// TestSprinklerConvergence ticks the loopy sprinkler network.
func TestSprinklerConvergence(t *testing.T) {
	g := moralized(t, builder.Sprinkler())
	e := bp.New(bp.WithTolerance(1e-6))

	for i := 0; i < 10 && !e.Converged(); i++ {
		require.NoError(t, e.Tick(g))
	}
	require.True(t, e.Converged())
	require.Less(t, e.Delta(), 1e-6)

	for _, l := range []string{builder.LabelCloudy, builder.LabelSprinkler, builder.LabelRain, builder.LabelWetGrass} {
		m, err := e.Marginal(label(t, g, l))
		require.NoError(t, err)
		sum := 0.0
		for _, p := range m {
			require.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		require.InDelta(t, 1, sum, 1e-9, l)
	}
	s, err := e.Marginal(label(t, g, builder.LabelSprinkler))
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0.7, 0.3}, s, loose); diff != "" {
		t.Fatalf("P(sprinkler) mismatch (-want +got):\n%s", diff)
	}

	// a converged engine ignores further ticks
	ticks := e.Ticks()
	require.NoError(t, e.Tick(g))
	require.Equal(t, ticks, e.Ticks())
}

// TestChainExact compares chain beliefs with the brute-force marginal.
func TestChainExact(t *testing.T) {
	g, err := builder.BuildGraph(nil,
		[]builder.BuilderOption{builder.WithFieldScale(0.5), builder.WithCoupling(0.8)},
		builder.Chain(3))
	require.NoError(t, err)

	e := bp.New()
	require.NoError(t, e.Run(context.Background(), g, 20))
	last, err := e.Marginal(label(t, g, "2"))
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0.6018840861980337, 0.39811591380196637}, last, approx); diff != "" {
		t.Fatalf("chain marginal mismatch (-want +got):\n%s", diff)
	}
}

// TestGraphNotUndirected checks the precondition leaves the engine untouched.
func TestGraphNotUndirected(t *testing.T) {
	g, err := builder.BuildGraph(nil, nil, builder.TrafficLight())
	require.NoError(t, err)

	e := bp.New()
	err = e.Tick(g)
	require.ErrorIs(t, err, bp.ErrGraphNotUndirected)
	require.Equal(t, bp.StateNotStarted, e.State())
	require.Zero(t, e.Ticks())

	// after one good tick, an asymmetric edge must not disturb the buffers
	g.Moralize()
	require.NoError(t, e.Tick(g))
	hit := label(t, g, builder.LabelHit)
	peers, _ := g.Neighbors(hit)
	before, ok := e.Message(peers[0], hit)
	require.True(t, ok)

	extra, err := g.AddVariable(2, "extra")
	require.NoError(t, err)
	pr, err := factor.Prior(0.5, 0.5)
	require.NoError(t, err)
	f, err := g.AddFactor(pr, "")
	require.NoError(t, err)
	_, err = g.AddEdge(f, extra)
	require.NoError(t, err)

	require.ErrorIs(t, e.Tick(g), bp.ErrGraphNotUndirected)
	after, ok := e.Message(peers[0], hit)
	require.True(t, ok)
	require.Equal(t, before, after)
	require.Equal(t, 1, e.Ticks())
	_, ok = e.Message(f, extra)
	require.False(t, ok)
}

// TestArityMismatch rejects a factor whose table does not match its variable.
func TestArityMismatch(t *testing.T) {
	g := factorgraph.NewGraph()
	v, _ := g.AddVariable(3, "v")
	u, err := factor.Unary(0.1)
	require.NoError(t, err)
	f, _ := g.AddFactor(u, "")
	require.NoError(t, g.Connect(f, v))

	e := bp.New()
	require.ErrorIs(t, e.Tick(g), factorgraph.ErrArityMismatch)
	require.Equal(t, bp.StateNotStarted, e.State())
}

// TestMarginalBeforeTick resolves the fresh-engine query as an error.
func TestMarginalBeforeTick(t *testing.T) {
	e := bp.New()
	_, err := e.Marginal(0)
	require.ErrorIs(t, err, bp.ErrNotConverged)
}

// TestMarginalErrors covers unknown and factor ids.
func TestMarginalErrors(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	e := bp.New()
	require.NoError(t, e.Tick(g))

	_, err := e.Marginal(99)
	require.ErrorIs(t, err, factorgraph.ErrUnknownNode)
	_, err = e.Marginal(g.Factors()[0])
	require.ErrorIs(t, err, factorgraph.ErrUnknownNode)
}

// TestForeignGraph binds the engine to its first graph.
func TestForeignGraph(t *testing.T) {
	g1 := moralized(t, builder.TrafficLight())
	g2 := moralized(t, builder.TrafficLight())
	e := bp.New()
	require.NoError(t, e.Tick(g1))
	require.ErrorIs(t, e.Tick(g2), bp.ErrForeignGraph)

	e.Reset()
	require.Equal(t, bp.StateNotStarted, e.State())
	require.NoError(t, e.Tick(g2))
}

// TestParallelMatchesSequential compares worker pools with the sequential
// tick on a loopy grid.
func TestParallelMatchesSequential(t *testing.T) {
	obs := []int{0, 0, 1, 1, 0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 1}
	g1, err := builder.BuildGraph(nil, nil, builder.IsingGrid(4, 4, obs))
	require.NoError(t, err)
	g2, err := builder.BuildGraph(nil, nil, builder.IsingGrid(4, 4, obs))
	require.NoError(t, err)

	seq, par := bp.New(), bp.New(bp.WithWorkers(4))
	for i := 0; i < 5; i++ {
		require.NoError(t, seq.Tick(g1))
		require.NoError(t, par.Tick(g2))
		require.Equal(t, seq.Delta(), par.Delta())
	}
	for _, v := range g1.Variables() {
		a, err := seq.Marginal(v)
		require.NoError(t, err)
		b, err := par.Marginal(v)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

// TestZeroPolicy contrasts the two zero-entry policies on a variable whose
// only informative neighbour sends a zero.
func TestZeroPolicy(t *testing.T) {
	build := func() (*factorgraph.Graph, factorgraph.NodeID, factorgraph.NodeID) {
		g := factorgraph.NewGraph()
		v, _ := g.AddVariable(2, "v")
		ev, err := factor.Evidence(2, 1)
		require.NoError(t, err)
		fe, _ := g.AddFactor(ev, "evidence")
		pr, err := factor.Prior(0.3, 0.7)
		require.NoError(t, err)
		fp, _ := g.AddFactor(pr, "prior")
		require.NoError(t, g.Connect(fe, v))
		require.NoError(t, g.Connect(fp, v))
		return g, v, fp
	}

	g, v, fp := build()
	exact := bp.New()
	require.NoError(t, exact.Tick(g))
	require.NoError(t, exact.Tick(g))
	// v → prior excludes the evidence message [0, 1] itself: exactly [0, 1]
	msg, ok := exact.Message(v, fp)
	require.True(t, ok)
	require.Equal(t, []float64{0, 1}, msg)

	g, _, _ = build()
	lossy := bp.New(bp.WithZeroPolicy(bp.ZeroEmit))
	require.NoError(t, lossy.Tick(g))
	require.NoError(t, lossy.Tick(g))
	fe := g.Factors()[0]
	// v → evidence excludes the evidence message, whose entry 0 is zero: the
	// lossy path emits 0 there, the exact path would emit the prior's 0.3
	msg, ok = lossy.Message(v, fe)
	require.True(t, ok)
	require.Equal(t, []float64{0, 0.7}, msg)

	g, _, _ = build()
	exact = bp.New()
	require.NoError(t, exact.Tick(g))
	require.NoError(t, exact.Tick(g))
	msg, ok = exact.Message(v, fe)
	require.True(t, ok)
	require.Equal(t, []float64{0.3, 0.7}, msg)
}

// TestLeafFactorUnmodified sends a leaf potential as is whether or not
// normalization is on, while pairwise messages are still scaled to unit sum.
func TestLeafFactorUnmodified(t *testing.T) {
	for _, on := range []bool{true, false} {
		g := factorgraph.NewGraph()
		v, _ := g.AddVariable(2, "v")
		w, _ := g.AddVariable(2, "w")
		u, err := factor.Unary(1)
		require.NoError(t, err)
		f, _ := g.AddFactor(u, "")
		require.NoError(t, g.Connect(f, v))
		pw, err := factor.Pairwise(1)
		require.NoError(t, err)
		p, _ := g.AddFactor(pw, "")
		require.NoError(t, g.Connect(p, v, w))

		e := bp.New(bp.WithNormalize(on))
		require.NoError(t, e.Tick(g))
		msg, ok := e.Message(f, v)
		require.True(t, ok)
		require.Equal(t, []float64{math.E, math.Exp(-1)}, msg, "normalize=%v", on)

		// all-ones input into a symmetric coupling yields a flat message
		msg, ok = e.Message(p, w)
		require.True(t, ok)
		sum := msg[0] + msg[1]
		if on {
			require.InDelta(t, 1, sum, 1e-12)
		} else {
			require.InDelta(t, 2*(math.E+math.Exp(-1)), sum, 1e-12)
		}
	}
}

// TestL1Norm sums entry distances.
func TestL1Norm(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	linf, l1 := bp.New(), bp.New(bp.WithNorm(bp.NormL1))
	require.NoError(t, linf.Tick(g))
	g2 := moralized(t, builder.TrafficLight())
	require.NoError(t, l1.Tick(g2))
	require.Greater(t, l1.Delta(), linf.Delta())
}

// TestRunBudget reports ErrNotConverged when the budget runs out and honours
// cancellation.
func TestRunBudget(t *testing.T) {
	g := moralized(t, builder.Sprinkler())
	e := bp.New()
	err := e.Run(context.Background(), g, 1)
	require.ErrorIs(t, err, bp.ErrNotConverged)
	require.Equal(t, bp.StateRunning, e.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = e.Run(ctx, g, 10)
	require.True(t, errors.Is(err, context.Canceled))
}

type recorder struct{ stats []bp.TickStats }

func (r *recorder) OnTick(s bp.TickStats) { r.stats = append(r.stats, s) }

// TestObserver receives one record per completed tick.
func TestObserver(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	rec := &recorder{}
	e := bp.New(bp.WithObserver(rec))
	require.NoError(t, e.Run(context.Background(), g, 10))
	require.Len(t, rec.stats, e.Ticks())
	last := rec.stats[len(rec.stats)-1]
	require.True(t, last.Converged)
	require.Equal(t, e.Ticks(), last.Tick)
	require.Equal(t, 6, last.Messages)
}

// engineReader reads back the engine it observes from inside OnTick.
type engineReader struct {
	e         *bp.Engine
	converged []bool
	ticks     []int
}

func (r *engineReader) OnTick(bp.TickStats) {
	r.converged = append(r.converged, r.e.Converged())
	r.ticks = append(r.ticks, r.e.Ticks())
}

// TestObserverReadsEngine lets an observer query the engine mid-run without
// blocking Tick.
func TestObserverReadsEngine(t *testing.T) {
	g := moralized(t, builder.TrafficLight())
	r := &engineReader{}
	e := bp.New(bp.WithObserver(r))
	r.e = e

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background(), g, 10) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run blocked while the observer read the engine")
	}

	require.Len(t, r.ticks, e.Ticks())
	for i, n := range r.ticks {
		require.Equal(t, i+1, n)
	}
	require.True(t, r.converged[len(r.converged)-1])
	require.False(t, r.converged[0])
}

// TestOptionPanics rejects meaningless option values.
func TestOptionPanics(t *testing.T) {
	require.Panics(t, func() { bp.WithTolerance(0) })
	require.Panics(t, func() { bp.WithTolerance(math.NaN()) })
	require.Panics(t, func() { bp.WithWorkers(0) })
}
