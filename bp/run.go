// SPDX-License-Identifier: MIT
// Package bp - tick loop and marginal queries.

package bp

import (
	"context"
	"fmt"

	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/dobots/aim-sub000/tensor"
)

// Run ticks g until convergence or until maxTicks ticks have been performed
// by this call. The context is checked before every tick.
// Returns ErrNotConverged (wrapped with the tick count) when the budget runs
// out, or the first Tick error.
func (e *Engine) Run(ctx context.Context, g *factorgraph.Graph, maxTicks int) error {
	for i := 0; i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("Run: after %d ticks: %w", i, err)
		}
		if err := e.Tick(g); err != nil {
			return err
		}
		if e.Converged() {
			return nil
		}
	}
	if e.Converged() {
		return nil
	}

	return fmt.Errorf("Run: %d ticks, delta %g: %w", maxTicks, e.Delta(), ErrNotConverged)
}

// Marginal returns the normalized product of the messages arriving at
// variable v from its factors. On a tree after convergence this is the exact
// marginal; on a loopy graph it is the belief.
//
// Errors: ErrNotConverged before the first tick; factorgraph.ErrUnknownNode
// for an id that is not a variable of the bound graph; tensor.ErrZeroMass when
// every state has zero belief.
func (e *Engine) Marginal(v factorgraph.NodeID) ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateNotStarted {
		return nil, fmt.Errorf("Marginal(%d): %w", v, ErrNotConverged)
	}
	n, err := e.graph.Node(v)
	if err != nil {
		return nil, fmt.Errorf("Marginal: %w", err)
	}
	if n.Kind != factorgraph.KindVariable {
		return nil, fmt.Errorf("Marginal(%d): %s: %w", v, n.Kind, factorgraph.ErrUnknownNode)
	}

	belief := ones(n.Ordinality)
	for _, f := range n.Neighbors() {
		m := e.incoming(f, v, n.Ordinality)
		for s := range belief {
			belief[s] *= m[s]
		}
	}
	sum := 0.0
	for _, x := range belief {
		sum += x
	}
	if sum == 0 {
		return nil, fmt.Errorf("Marginal(%d): %w", v, tensor.ErrZeroMass)
	}
	for s := range belief {
		belief[s] /= sum
	}

	return belief, nil
}
