// SPDX-License-Identifier: MIT
// Package: builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves never panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math"
	"math/rand"
)

// BuilderOption customizes a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithLabelScheme sets the label generator for sequential networks.
// Panics on nil.
func WithLabelScheme(fn LabelFn) BuilderOption {
	if fn == nil {
		panic("builder: WithLabelScheme(nil)")
	}
	return func(c *builderConfig) {
		c.labelFn = fn
	}
}

// WithRand provides an explicit RNG for stochastic constructors.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithCoupling sets the pairwise Ising coupling used by Chain and IsingGrid.
// Negative values favour disagreement. Panics on NaN/Inf.
func WithCoupling(c float64) BuilderOption {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		panic("builder: WithCoupling(NaN/Inf)")
	}
	return func(cfg *builderConfig) {
		cfg.coupling = c
	}
}

// WithFieldScale sets the magnitude of unary local fields. Panics on NaN/Inf
// or a negative scale.
func WithFieldScale(h float64) BuilderOption {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		panic("builder: WithFieldScale(h<0 or NaN/Inf)")
	}
	return func(cfg *builderConfig) {
		cfg.fieldScale = h
	}
}
