// SPDX-License-Identifier: MIT
// Package: builder
//
// config.go - internal configuration and deterministic defaults.
//
// Design:
//   • builderConfig is the single source of truth for all builder knobs.
//   • Defaults are deterministic and documented; no globals.
//   • newBuilderConfig applies options in-order (later overrides earlier).
//
// Deterministic defaults:
//   • labelFn    = DefaultLabelFn       ("0","1","2",...)
//   • rng        = nil                  (pure/deterministic unless seeded)
//   • coupling   = DefaultCoupling
//   • fieldScale = DefaultFieldScale

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	// Variable label strategy for sequential networks (Chain).
	labelFn LabelFn
	// RNG for stochastic constructors; nil means no randomness.
	rng *rand.Rand
	// Pairwise Ising coupling between neighbouring variables.
	coupling float64
	// Magnitude of unary local fields.
	fieldScale float64
}

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order.
// Complexity: O(len(opts)) time, O(1) space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		labelFn:    DefaultLabelFn,
		rng:        nil,
		coupling:   DefaultCoupling,
		fieldScale: DefaultFieldScale,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
