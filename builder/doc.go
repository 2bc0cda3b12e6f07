// SPDX-License-Identifier: MIT

// Package builder assembles sample factor graphs from composable
// constructors, in the functional-options style used across this module.
//
// Key components:
//
//   - Orchestration:
//     – BuildGraph(gopts, bopts, cons...) creates a graph and applies constructors in order.
//     – Apply(g, bopts, cons...) runs constructors against an existing graph.
//   - Configuration:
//     – BuilderOption mutates builderConfig before use.
//     – WithCoupling / WithFieldScale tune Ising potentials.
//     – WithSeed / WithRand supply the RNG for NoisyImage.
//     – WithLabelScheme and friends name Chain variables.
//   - Networks:
//     – Sprinkler, TrafficLight: directed Bayesian networks (Moralize before use).
//     – Chain, IsingGrid, NoisyImage: undirected Ising models.
//     – Observe: evidence on a labelled variable.
//
// Guarantees:
//
//   - Deterministic: same constructors, options and seed ⇒ identical graphs.
//   - Option constructors panic on meaningless values; constructors return
//     sentinel errors wrapped with the constructor name.
//
// Example:
//
//	g, err := builder.BuildGraph(nil, nil, builder.Sprinkler(), builder.Observe(builder.LabelWetGrass, 1))
//	if err != nil { ... }
//	g.Moralize()
package builder
