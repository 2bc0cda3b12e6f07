// SPDX-License-Identifier: MIT
// Package: builder
//
// api.go - public entry points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildGraph(gopts, bopts, cons...). Creates g, resolves cfg, runs cons in order.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig (no global state).
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical graphs.
//   - Safety: constructors never panic; they return sentinel errors.

package builder

import (
	"fmt"

	"github.com/dobots/aim-sub000/factorgraph"
)

// Constructor applies a deterministic mutation to a factor graph using the
// resolved builderConfig. Constructors validate parameters before adding any
// node and return sentinel errors.
type Constructor func(g *factorgraph.Graph, cfg builderConfig) error

// BuildGraph creates a new factorgraph.Graph with gopts, resolves the builder
// configuration from bopts, and applies all constructors in order.
// Any constructor error is wrapped as "BuildGraph: %w" and returned at once;
// the partially built graph is discarded.
//
// Complexity: O(len(bopts)) plus the cost of each constructor.
func BuildGraph(gopts []factorgraph.Option, bopts []BuilderOption, cons ...Constructor) (*factorgraph.Graph, error) {
	g := factorgraph.NewGraph(gopts...)
	cfg := newBuilderConfig(bopts...)

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildGraph: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return nil, fmt.Errorf("BuildGraph: %w", err)
		}
	}

	return g, nil
}

// Apply runs constructors against an existing graph, e.g. to add evidence
// to a network built earlier.
func Apply(g *factorgraph.Graph, bopts []BuilderOption, cons ...Constructor) error {
	if g == nil {
		return fmt.Errorf("Apply: nil graph: %w", ErrConstructFailed)
	}
	cfg := newBuilderConfig(bopts...)
	for i, fn := range cons {
		if fn == nil {
			return fmt.Errorf("Apply: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(g, cfg); err != nil {
			return fmt.Errorf("Apply: %w", err)
		}
	}

	return nil
}

// Lookup returns the variable registered under label.
func Lookup(g *factorgraph.Graph, label string) (factorgraph.NodeID, error) {
	return g.Lookup(label)
}

// =============================================================================
// Network factories - implemented in impl_*.go
// =============================================================================
//
// Sprinkler()                     impl_bayes.go  cloudy/sprinkler/rain/wet_grass Bayesian network
// TrafficLight()                  impl_bayes.go  P(Light) and P(Hit | Light)
// Chain(n)                        impl_ising.go  Ising chain with a field on the first variable
// IsingGrid(rows, cols, obs)      impl_ising.go  image denoising grid from binary observations
// NoisyImage(rows, cols, flip)    impl_ising.go  IsingGrid over a seeded noisy two-region image
// Observe(label, state)           impl_observe.go evidence factor clamping a labelled variable
