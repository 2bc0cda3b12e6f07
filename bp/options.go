// SPDX-License-Identifier: MIT
// Package bp - engine options and defaults.
//
// Defaults are the single source of truth; option constructors panic on
// values that can never be meaningful (negative tolerance, zero workers).

package bp

import (
	"log/slog"
	"math"
)

// Norm selects the distance used to compare a message against its value in
// the previous tick.
type Norm uint8

const (
	// NormLInf is max_i |a_i - b_i|.
	NormLInf Norm = iota
	// NormL1 is Σ_i |a_i - b_i|.
	NormL1
)

// String implements fmt.Stringer.
func (n Norm) String() string {
	if n == NormL1 {
		return "l1"
	}
	return "linf"
}

// ZeroPolicy selects how a variable computes the leave-one-out product when
// the excluded incoming message has a zero entry.
type ZeroPolicy uint8

const (
	// ZeroRecompute recomputes Π_{g≠f} incoming(g) directly for the zero
	// entries. Exact; costs O(deg) per affected entry.
	ZeroRecompute ZeroPolicy = iota
	// ZeroEmit writes 0 for the zero entries. Loses the product of the other
	// neighbours whenever the excluded message alone is zero.
	ZeroEmit
)

// String implements fmt.Stringer.
func (z ZeroPolicy) String() string {
	if z == ZeroEmit {
		return "emit"
	}
	return "recompute"
}

const (
	// DefaultTolerance is the convergence threshold ε.
	DefaultTolerance = 1e-6
	// DefaultNorm is the message distance.
	DefaultNorm = NormLInf
	// DefaultNormalize enables normalization of factor→variable messages.
	DefaultNormalize = true
	// DefaultZeroPolicy is the exact leave-one-out path.
	DefaultZeroPolicy = ZeroRecompute
	// DefaultWorkers computes nodes sequentially.
	DefaultWorkers = 1
)

// Option configures an Engine.
type Option func(e *Engine)

// WithTolerance sets ε. Panics if eps is not a positive finite number.
func WithTolerance(eps float64) Option {
	if !(eps > 0) || math.IsInf(eps, 0) {
		panic("bp: WithTolerance: eps must be positive and finite")
	}
	return func(e *Engine) { e.tol = eps }
}

// WithNorm sets the message distance.
func WithNorm(n Norm) Option {
	return func(e *Engine) { e.norm = n }
}

// WithNormalize toggles normalization of factor→variable messages from
// factors with two or more variables. A leaf factor sends its potential as is
// and a leaf variable sends exact ones.
func WithNormalize(on bool) Option {
	return func(e *Engine) { e.normalize = on }
}

// WithZeroPolicy sets the zero-entry policy for variable messages.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(e *Engine) { e.zero = p }
}

// WithWorkers bounds the number of nodes computed concurrently within a tick.
// Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("bp: WithWorkers: n must be >= 1")
	}
	return func(e *Engine) { e.workers = n }
}

// WithLogger sets the logger used for per-tick debug records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers a hook called after every completed tick.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.obs = o }
}
