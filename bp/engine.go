// SPDX-License-Identifier: MIT

// Package bp implements synchronous sum-product belief propagation over a
// factorgraph.Graph.
//
// One Tick recomputes every message from the previous tick's buffer into a
// fresh buffer and swaps the two once all nodes are done, so no node ever
// reads a message written in the same tick. Nodes may therefore be computed
// in any order, or concurrently (WithWorkers).
//
// Messages:
//
//	variable v → factor f:  Π_{g ≠ f} m(g→v)          (a leaf variable sends 1s)
//	factor f → variable v:  Σ_{x \ x_v} ψ_f(x) Π_{u ≠ v} m(u→f)[x_u]
//
// Before the first tick every message is the all-ones vector. Only
// factor→variable messages are normalized (WithNormalize), and a leaf factor
// sends its potential unmodified.
//
// Convergence: after each tick the distance between every message and its
// previous value is measured (WithNorm); the tick converges when the largest
// distance is below ε (WithTolerance). A converged engine treats further ticks
// on the same graph as no-ops.
//
// An Engine binds to the first graph it ticks and owns the message buffers
// for it; ticking another graph returns ErrForeignGraph until Reset.
package bp

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dobots/aim-sub000/factorgraph"
)

// Sentinel errors.
var (
	// ErrGraphNotUndirected indicates a tick on a graph with a one-way edge.
	// The caller may Moralize and retry.
	ErrGraphNotUndirected = errors.New("bp: graph is not undirected")

	// ErrNotConverged indicates a marginal query before the first tick, or a
	// Run that exhausted its tick budget.
	ErrNotConverged = errors.New("bp: not converged")

	// ErrForeignGraph indicates a tick on a graph other than the bound one.
	ErrForeignGraph = errors.New("bp: engine is bound to another graph")
)

// State is the engine lifecycle.
type State uint8

const (
	// StateNotStarted means no tick has completed.
	StateNotStarted State = iota
	// StateRunning means at least one tick completed without convergence.
	StateRunning
	// StateConverged is terminal until Reset.
	StateConverged
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	default:
		return "not-started"
	}
}

// TickStats describes one completed tick.
type TickStats struct {
	Tick      int
	Delta     float64
	Converged bool
	Duration  time.Duration
	Messages  int
}

// Observer receives TickStats after every completed tick.
type Observer interface {
	OnTick(TickStats)
}

// edgeKey addresses the message sent from → to.
type edgeKey struct {
	from, to factorgraph.NodeID
}

// Engine runs sum-product message passing on one graph.
type Engine struct {
	mu sync.Mutex

	tol       float64
	norm      Norm
	normalize bool
	zero      ZeroPolicy
	workers   int
	log       *slog.Logger
	obs       Observer

	graph *factorgraph.Graph
	prev  map[edgeKey][]float64 // messages of the last completed tick
	state State
	ticks int
	delta float64
}

// New creates an Engine in StateNotStarted.
func New(opts ...Option) *Engine {
	e := &Engine{
		tol:       DefaultTolerance,
		norm:      DefaultNorm,
		normalize: DefaultNormalize,
		zero:      DefaultZeroPolicy,
		workers:   DefaultWorkers,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Converged reports whether the last tick converged.
func (e *Engine) Converged() bool { return e.State() == StateConverged }

// Ticks returns the number of completed (non no-op) ticks.
func (e *Engine) Ticks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Delta returns the largest message distance measured by the last tick.
func (e *Engine) Delta() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delta
}

// Tolerance returns ε.
func (e *Engine) Tolerance() float64 { return e.tol }

// Message returns a copy of the last computed message from → to.
func (e *Engine) Message(from, to factorgraph.NodeID) ([]float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.prev[edgeKey{from, to}]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(m))
	copy(out, m)
	return out, true
}

// Reset drops all messages and the graph binding.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph = nil
	e.prev = nil
	e.state = StateNotStarted
	e.ticks = 0
	e.delta = 0
}
