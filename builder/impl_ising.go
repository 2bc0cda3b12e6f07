// SPDX-License-Identifier: MIT
// Package: builder
//
// impl_ising.go - Ising chains and image denoising grids.
//
// Canonical model:
//   • Binary variables; pairwise factors exp(±cfg.coupling) between neighbours.
//   • Unary factors exp(±c) with c = cfg.fieldScale·(1 − 2·obs): an observed 0
//     favours state 0, an observed 1 favours state 1.
//   • Edges are inserted with Connect, so the graph is undirected as built.
//
// Grid layout:
//   • Variables "r,c" in row-major order, each followed by its unary factor.
//   • Pairwise factors to the Right then Bottom neighbour per cell, row-major.

package builder

import (
	"fmt"

	"github.com/dobots/aim-sub000/factor"
	"github.com/dobots/aim-sub000/factorgraph"
)

const gridLabelFmt = "%d,%d"

// Chain returns a Constructor for n binary variables labelled by cfg.labelFn,
// a unary field of strength cfg.fieldScale on the first variable and pairwise
// couplings between consecutive variables. n ≥ MinChainVariables.
// Complexity: O(n).
func Chain(n int) Constructor {
	return func(g *factorgraph.Graph, cfg builderConfig) error {
		if err := validateMin(MethodChain, n, MinChainVariables); err != nil {
			return err
		}
		ids := make([]factorgraph.NodeID, n)
		for i := range ids {
			l := cfg.labelFn(i)
			id, err := g.AddVariable(2, l)
			if err != nil {
				return builderErrorf(MethodChain, err, "AddVariable(%s)", l)
			}
			ids[i] = id
		}
		if err := addUnary(MethodChain, g, ids[0], cfg.fieldScale); err != nil {
			return err
		}
		for i := 0; i+1 < n; i++ {
			if err := addPair(MethodChain, g, ids[i], ids[i+1], cfg.coupling); err != nil {
				return err
			}
		}

		return nil
	}
}

// IsingGrid returns a Constructor for a rows×cols denoising grid driven by
// binary observations in row-major order.
// Errors: ErrTooFewVariables, ErrObservationCount, ErrInvalidObservation.
// Complexity: O(rows·cols).
func IsingGrid(rows, cols int, obs []int) Constructor {
	return func(g *factorgraph.Graph, cfg builderConfig) error {
		return buildGrid(MethodIsingGrid, g, cfg, rows, cols, obs)
	}
}

// NoisyImage returns a Constructor that draws a rows×cols two-region image
// (left half 0, right half 1), flips every pixel with probability flip using
// cfg.rng, and builds the IsingGrid for it.
// Errors: ErrTooFewVariables, ErrInvalidProbability, ErrNeedRandSource.
func NoisyImage(rows, cols int, flip float64) Constructor {
	return func(g *factorgraph.Graph, cfg builderConfig) error {
		if err := validateMin(MethodNoisyImage, rows, MinGridDim); err != nil {
			return err
		}
		if err := validateMin(MethodNoisyImage, cols, MinGridDim); err != nil {
			return err
		}
		if err := validateProbability(MethodNoisyImage, flip); err != nil {
			return err
		}
		if cfg.rng == nil {
			return fmt.Errorf("%s: %w", MethodNoisyImage, ErrNeedRandSource)
		}
		obs := make([]int, rows*cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := 0
				if 2*c >= cols {
					v = 1
				}
				if cfg.rng.Float64() < flip {
					v = 1 - v
				}
				obs[r*cols+c] = v
			}
		}

		return buildGrid(MethodNoisyImage, g, cfg, rows, cols, obs)
	}
}

func buildGrid(method string, g *factorgraph.Graph, cfg builderConfig, rows, cols int, obs []int) error {
	if err := validateMin(method, rows, MinGridDim); err != nil {
		return err
	}
	if err := validateMin(method, cols, MinGridDim); err != nil {
		return err
	}
	if err := validateObservations(method, rows, cols, obs); err != nil {
		return err
	}

	ids := make([]factorgraph.NodeID, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			l := fmt.Sprintf(gridLabelFmt, r, c)
			id, err := g.AddVariable(2, l)
			if err != nil {
				return builderErrorf(method, err, "AddVariable(%s)", l)
			}
			ids[i] = id
			if err = addUnary(method, g, id, cfg.fieldScale*float64(1-2*obs[i])); err != nil {
				return err
			}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := ids[r*cols+c]
			if c+1 < cols {
				if err := addPair(method, g, u, ids[r*cols+c+1], cfg.coupling); err != nil {
					return err
				}
			}
			if r+1 < rows {
				if err := addPair(method, g, u, ids[(r+1)*cols+c], cfg.coupling); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func addUnary(method string, g *factorgraph.Graph, v factorgraph.NodeID, c float64) error {
	t, err := factor.Ising(factor.KindUnary, c)
	if err != nil {
		return builderErrorf(method, err, "unary(%d)", v)
	}
	f, err := g.AddFactor(t, "")
	if err != nil {
		return builderErrorf(method, err, "unary(%d)", v)
	}
	if err = g.Connect(f, v); err != nil {
		return builderErrorf(method, err, "unary(%d)", v)
	}
	return nil
}

func addPair(method string, g *factorgraph.Graph, u, v factorgraph.NodeID, c float64) error {
	t, err := factor.Ising(factor.KindBinary, c)
	if err != nil {
		return builderErrorf(method, err, "pair(%d,%d)", u, v)
	}
	f, err := g.AddFactor(t, "")
	if err != nil {
		return builderErrorf(method, err, "pair(%d,%d)", u, v)
	}
	if err = g.Connect(f, u, v); err != nil {
		return builderErrorf(method, err, "pair(%d,%d)", u, v)
	}
	return nil
}
