// Package beliefprop is an in-memory engine for probabilistic inference on
// factor graphs: build a bipartite graph of discrete variables and factor
// tables, then run synchronous sum-product belief propagation on it, directly
// or through a junction tree.
//
// What is inside?
//
//	A thread-safe, pure-Go library that brings together:
//		• Tensors: N-dimensional float64 tables with broadcast products and sums
//		• Factor graphs: variables, factors, edges, moralization, triangulation
//		• Factors: Ising potentials, conditional tables, evidence and priors
//		• Junction trees: clique extraction and exact inference on loopy graphs
//		• Belief propagation: double-buffered ticks, convergence, marginals
//
// Packages:
//
//	tensor/        Table type: layout, accessors, broadcast and reduction ops
//	factorgraph/   Graph, Node, Edge; Moralize, Triangulate, Clone, IsTree
//	factor/        constructors for common factor tables and CPT validation
//	junction/      Tree: cliques, separators, clique graph, projected marginals
//	bp/            Engine: Tick, Run, Marginal, options and observers
//	builder/       sample networks (sprinkler, traffic light, Ising chain/grid)
//	cmd/beliefctl  CLI that runs the sample networks and prints marginals
//
// Quick example (a two-variable tree):
//
//	light ── P(light)
//	  │
//	P(hit|light) ── hit
//
//	g, _ := builder.BuildGraph(nil, nil, builder.TrafficLight())
//	g.Moralize()
//	e := bp.New()
//	_ = e.Run(ctx, g, 10)
//	hit, _ := g.Lookup(builder.LabelHit)
//	p, _ := e.Marginal(hit) // [0.428 0.572]
package beliefprop
