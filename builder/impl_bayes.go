// SPDX-License-Identifier: MIT
// Package: builder
//
// impl_bayes.go - fixed Bayesian networks.
//
// Both networks are emitted as DIRECTED graphs: every conditional factor has
// edges parent→factor and factor→child only, and priors have factor→child.
// Call Moralize before ticking.
//
// Table layout: a conditional factor's axis 0 is the child, followed by the
// parents in the order listed. The child edge is inserted first so the
// factor's scope matches that layout.

package builder

import (
	"github.com/dobots/aim-sub000/factor"
	"github.com/dobots/aim-sub000/factorgraph"
	"github.com/dobots/aim-sub000/tensor"
)

// cpt describes one conditional factor: P(child | parents) with flat values
// in table order (child fastest).
type cpt struct {
	label   string
	child   string
	parents []string
	dims    []int
	values  []float64
}

// Sprinkler returns a Constructor for the four-variable network
//
//	cloudy → sprinkler, cloudy → rain, (sprinkler, rain) → wet_grass
//
// with P(C=1)=0.5, P(S=1|C)=[0.5, 0.1], P(R=1|C)=[0.2, 0.8] and
// P(W=1|S,R) = 0, 0.9, 0.9, 0.99 for (S,R) = 00, 10, 01, 11.
func Sprinkler() Constructor {
	return func(g *factorgraph.Graph, _ builderConfig) error {
		vars := []string{LabelCloudy, LabelSprinkler, LabelRain, LabelWetGrass}
		cpts := []cpt{
			{"P(cloudy)", LabelCloudy, nil, []int{2}, []float64{0.5, 0.5}},
			{"P(sprinkler|cloudy)", LabelSprinkler, []string{LabelCloudy}, []int{2, 2},
				[]float64{0.5, 0.5, 0.9, 0.1}},
			{"P(rain|cloudy)", LabelRain, []string{LabelCloudy}, []int{2, 2},
				[]float64{0.8, 0.2, 0.2, 0.8}},
			{"P(wet_grass|sprinkler,rain)", LabelWetGrass, []string{LabelSprinkler, LabelRain}, []int{2, 2, 2},
				[]float64{1, 0, 0.1, 0.9, 0.1, 0.9, 0.01, 0.99}},
		}
		return buildBayes(MethodSprinkler, g, vars, []int{2, 2, 2, 2}, cpts)
	}
}

// TrafficLight returns a Constructor for P(light) = [0.2, 0.1, 0.7] over
// {red, yellow, green} and P(hit | light) with P(hit=1|light) = [0.01, 0.1, 0.8].
// The marginal of hit is [0.428, 0.572].
func TrafficLight() Constructor {
	return func(g *factorgraph.Graph, _ builderConfig) error {
		vars := []string{LabelLight, LabelHit}
		cpts := []cpt{
			{"P(light)", LabelLight, nil, []int{3}, []float64{0.2, 0.1, 0.7}},
			{"P(hit|light)", LabelHit, []string{LabelLight}, []int{2, 3},
				[]float64{0.99, 0.01, 0.9, 0.1, 0.2, 0.8}},
		}
		return buildBayes(MethodTrafficLight, g, vars, []int{3, 2}, cpts)
	}
}

// buildBayes adds the variables, then one factor per cpt with the child edge
// first. Every table is validated as a conditional distribution over axis 0.
func buildBayes(method string, g *factorgraph.Graph, vars []string, ords []int, cpts []cpt) error {
	ids := make(map[string]factorgraph.NodeID, len(vars))
	for i, l := range vars {
		id, err := g.AddVariable(ords[i], l)
		if err != nil {
			return builderErrorf(method, err, "AddVariable(%s)", l)
		}
		ids[l] = id
	}

	for _, c := range cpts {
		t, err := tensor.FromValues(c.dims, c.values)
		if err != nil {
			return builderErrorf(method, err, "table %s", c.label)
		}
		if err = factor.ValidateCPT(t, 0, 1e-9); err != nil {
			return builderErrorf(method, err, "table %s", c.label)
		}
		f, err := g.AddFactor(t, c.label)
		if err != nil {
			return builderErrorf(method, err, "AddFactor(%s)", c.label)
		}
		if _, err = g.AddEdge(f, ids[c.child]); err != nil {
			return builderErrorf(method, err, "AddEdge(%s→%s)", c.label, c.child)
		}
		for _, p := range c.parents {
			if _, err = g.AddEdge(ids[p], f); err != nil {
				return builderErrorf(method, err, "AddEdge(%s→%s)", p, c.label)
			}
		}
	}

	return nil
}
