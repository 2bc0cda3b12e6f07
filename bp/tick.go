// SPDX-License-Identifier: MIT
// Package bp - one synchronous round of message updates.

package bp

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dobots/aim-sub000/factorgraph"
)

// outMsg is one message produced by a node during a tick.
type outMsg struct {
	key edgeKey
	val []float64
}

// Tick performs one synchronous round of message updates on g.
//
// Preconditions, checked before any buffer is touched:
//   - g is the bound graph (or no graph is bound yet), else ErrForeignGraph;
//   - g.IsUndirected(), else ErrGraphNotUndirected;
//   - g.CheckFactorArity(), else factorgraph.ErrArityMismatch.
//
// A failed precondition leaves the state, counters and messages unchanged.
// On a converged engine Tick returns nil without doing any work.
//
// The logger and observer run after the engine lock is released, so an
// observer may read the engine it is attached to.
func (e *Engine) Tick(g *factorgraph.Graph) error {
	stats, ran, err := e.tick(g)
	if err != nil || !ran {
		return err
	}

	e.log.Debug("tick",
		"tick", stats.Tick,
		"delta", stats.Delta,
		"converged", stats.Converged,
		"messages", stats.Messages,
		"duration", stats.Duration,
	)
	if e.obs != nil {
		e.obs.OnTick(stats)
	}

	return nil
}

// tick runs one round under e.mu and commits it. ran is false when the engine
// had already converged.
func (e *Engine) tick(g *factorgraph.Graph) (stats TickStats, ran bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graph != nil && e.graph != g {
		return stats, false, fmt.Errorf("Tick: %w", ErrForeignGraph)
	}
	if e.state == StateConverged {
		return stats, false, nil
	}
	if !g.IsUndirected() {
		return stats, false, fmt.Errorf("Tick: %w", ErrGraphNotUndirected)
	}
	if err := g.CheckFactorArity(); err != nil {
		return stats, false, fmt.Errorf("Tick: %w", err)
	}

	start := time.Now()
	nodes := g.Nodes()
	results := make([][]outMsg, len(nodes))
	compute := func(i int) error {
		var err error
		if nodes[i].Kind == factorgraph.KindVariable {
			results[i] = e.variableMessages(nodes[i])
		} else {
			results[i], err = e.factorMessages(nodes[i])
		}
		return err
	}

	if e.workers > 1 {
		var eg errgroup.Group
		eg.SetLimit(e.workers)
		for i := range nodes {
			i := i
			eg.Go(func() error { return compute(i) })
		}
		if err := eg.Wait(); err != nil {
			return stats, false, fmt.Errorf("Tick: %w", err)
		}
	} else {
		for i := range nodes {
			if err := compute(i); err != nil {
				return stats, false, fmt.Errorf("Tick: %w", err)
			}
		}
	}

	// barrier passed: measure and swap
	next := make(map[edgeKey][]float64, len(e.prev))
	delta := 0.0
	for _, msgs := range results {
		for _, m := range msgs {
			next[m.key] = m.val
			if d := e.distance(m.val, e.prev[m.key]); d > delta {
				delta = d
			}
		}
	}
	e.graph = g
	e.prev = next
	e.ticks++
	e.delta = delta
	if delta < e.tol {
		e.state = StateConverged
	} else {
		e.state = StateRunning
	}

	return TickStats{
		Tick:      e.ticks,
		Delta:     delta,
		Converged: e.state == StateConverged,
		Duration:  time.Since(start),
		Messages:  len(next),
	}, true, nil
}

// incoming returns the previous-tick message from → to, or all ones before the
// first tick.
func (e *Engine) incoming(from, to factorgraph.NodeID, n int) []float64 {
	if m, ok := e.prev[edgeKey{from, to}]; ok {
		return m
	}
	return ones(n)
}

// variableMessages computes v → f for every neighbouring factor f.
func (e *Engine) variableMessages(v *factorgraph.Node) []outMsg {
	peers := v.Neighbors()
	if len(peers) == 0 {
		return nil
	}
	if len(peers) == 1 {
		return []outMsg{{edgeKey{v.ID, peers[0]}, ones(v.Ordinality)}}
	}

	in := make([][]float64, len(peers))
	total := ones(v.Ordinality)
	for j, f := range peers {
		in[j] = e.incoming(f, v.ID, v.Ordinality)
		for s := range total {
			total[s] *= in[j][s]
		}
	}

	out := make([]outMsg, len(peers))
	for j, f := range peers {
		msg := make([]float64, v.Ordinality)
		for s := range msg {
			switch {
			case in[j][s] != 0:
				msg[s] = total[s] / in[j][s]
			case e.zero == ZeroEmit:
				msg[s] = 0
			default:
				p := 1.0
				for k := range peers {
					if k != j {
						p *= in[k][s]
					}
				}
				msg[s] = p
			}
		}
		out[j] = outMsg{edgeKey{v.ID, f}, msg}
	}

	return out
}

// factorMessages computes f → v for every variable in f's scope: the table
// times every incoming message except v's, summed onto v's axis. A leaf factor
// sends its potential unmodified, even with normalization on.
func (e *Engine) factorMessages(f *factorgraph.Node) ([]outMsg, error) {
	out := make([]outMsg, 0, len(f.Scope))
	for target, v := range f.Scope {
		t := f.Table.Clone()
		for k, u := range f.Scope {
			if k == target {
				continue
			}
			if err := t.MultiplyVector(k, e.incoming(u, f.ID, t.Dim(k))); err != nil {
				return nil, fmt.Errorf("factor %d: %w", f.ID, err)
			}
		}
		msg, err := t.SumOnto(target)
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", f.ID, err)
		}
		if e.normalize && len(f.Scope) > 1 {
			normalize(msg)
		}
		out = append(out, outMsg{edgeKey{f.ID, v}, msg})
	}

	return out, nil
}

// distance compares a message with its previous value (all ones if absent).
func (e *Engine) distance(a, b []float64) float64 {
	d := 0.0
	for i, x := range a {
		y := 1.0
		if b != nil {
			y = b[i]
		}
		diff := math.Abs(x - y)
		if e.norm == NormL1 {
			d += diff
		} else if diff > d {
			d = diff
		}
	}
	return d
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// normalize scales v to unit sum; an all-zero vector is left as is.
func normalize(v []float64) {
	s := 0.0
	for _, x := range v {
		s += x
	}
	if s == 0 {
		return
	}
	for i := range v {
		v[i] /= s
	}
}
