// SPDX-License-Identifier: MIT
// Package: builder
//
// impl_observe.go - evidence on labelled variables.

package builder

import (
	"github.com/dobots/aim-sub000/factor"
	"github.com/dobots/aim-sub000/factorgraph"
)

// Observe returns a Constructor that clamps the variable labelled label to
// state by connecting an indicator factor to it.
// Errors: factorgraph.ErrUnknownNode for an unknown label,
// factor.ErrInvalidDimension for a state outside the variable's range.
func Observe(label string, state int) Constructor {
	return func(g *factorgraph.Graph, _ builderConfig) error {
		v, err := g.Lookup(label)
		if err != nil {
			return builderErrorf(MethodObserve, err, "label %q", label)
		}
		n, err := g.Variable(v)
		if err != nil {
			return builderErrorf(MethodObserve, err, "label %q", label)
		}
		t, err := factor.Evidence(n.Ordinality, state)
		if err != nil {
			return builderErrorf(MethodObserve, err, "%s=%d", label, state)
		}
		f, err := g.AddFactor(t, "obs("+label+")")
		if err != nil {
			return builderErrorf(MethodObserve, err, "%s=%d", label, state)
		}
		if err = g.Connect(f, v); err != nil {
			return builderErrorf(MethodObserve, err, "%s=%d", label, state)
		}

		return nil
	}
}
