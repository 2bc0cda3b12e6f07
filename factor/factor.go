// SPDX-License-Identifier: MIT

// Package factor provides constructors for the potential tables attached to
// factor nodes: Ising-style unary and pairwise couplings, plain conditional
// probability tables, observation indicators and priors.
//
// Every constructor returns a fresh *tensor.Table owned by the caller. Axis
// order follows the factor's scope: a pairwise table connects two variables,
// a conditional table P(child | parents...) uses axis 0 for the child.
package factor

import (
	"errors"
	"fmt"
	"math"

	"github.com/dobots/aim-sub000/tensor"
)

// Sentinel errors.
var (
	// ErrInvalidDimension indicates an ordinality below 2 for an Ising factor,
	// an observation state outside [0, ordinality), or an empty or
	// non-positive conditional shape.
	ErrInvalidDimension = errors.New("factor: invalid dimension")

	// ErrUnknownCoupling indicates an unsupported coupling Kind.
	ErrUnknownCoupling = errors.New("factor: unknown coupling kind")

	// ErrNotNormalized indicates a conditional column that does not sum to 1.
	ErrNotNormalized = errors.New("factor: conditional distribution not normalized")
)

// Kind selects the shape of an Ising factor.
type Kind uint8

const (
	// KindUnary is a local field on one variable.
	KindUnary Kind = iota
	// KindBinary couples two variables.
	KindBinary
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Unary returns the binary local-field potential [exp(c), exp(-c)].
func Unary(coupling float64) (*tensor.Table, error) {
	return UnaryFor(2, coupling)
}

// Pairwise returns the 2×2 coupling potential with exp(c) on the diagonal and
// exp(-c) elsewhere.
func Pairwise(coupling float64) (*tensor.Table, error) {
	return PairwiseFor(2, coupling)
}

// UnaryFor is Unary for a variable with the given ordinality: state 0 gets
// exp(c), every other state gets exp(-c).
// Returns ErrInvalidDimension if ordinality < 2.
func UnaryFor(ordinality int, coupling float64) (*tensor.Table, error) {
	if ordinality < 2 {
		return nil, fmt.Errorf("UnaryFor(%d): %w", ordinality, ErrInvalidDimension)
	}
	t, err := tensor.New(ordinality)
	if err != nil {
		return nil, err
	}
	if err = t.Fill(math.Exp(-coupling)); err != nil {
		return nil, fmt.Errorf("UnaryFor(%d, %g): %w", ordinality, coupling, err)
	}
	if err = t.Set1(0, math.Exp(coupling)); err != nil {
		return nil, fmt.Errorf("UnaryFor(%d, %g): %w", ordinality, coupling, err)
	}

	return t, nil
}

// PairwiseFor is Pairwise for two variables of the given ordinality:
// exp(c) where the states agree, exp(-c) where they differ.
// Returns ErrInvalidDimension if ordinality < 2.
func PairwiseFor(ordinality int, coupling float64) (*tensor.Table, error) {
	if ordinality < 2 {
		return nil, fmt.Errorf("PairwiseFor(%d): %w", ordinality, ErrInvalidDimension)
	}
	t, err := tensor.New(ordinality, ordinality)
	if err != nil {
		return nil, err
	}
	if err = t.Fill(math.Exp(-coupling)); err != nil {
		return nil, fmt.Errorf("PairwiseFor(%d, %g): %w", ordinality, coupling, err)
	}
	same := math.Exp(coupling)
	for i := 0; i < ordinality; i++ {
		if err = t.Set2(i, i, same); err != nil {
			return nil, fmt.Errorf("PairwiseFor(%d, %g): %w", ordinality, coupling, err)
		}
	}

	return t, nil
}

// Ising dispatches on kind to Unary or Pairwise.
func Ising(kind Kind, coupling float64) (*tensor.Table, error) {
	switch kind {
	case KindUnary:
		return Unary(coupling)
	case KindBinary:
		return Pairwise(coupling)
	default:
		return nil, fmt.Errorf("Ising(%s): %w", kind, ErrUnknownCoupling)
	}
}

// Conditional returns a zero table the caller fills with Set, e.g.
// P(WetGrass | Sprinkler, Rain) as Conditional(2, 2, 2).
// Returns ErrInvalidDimension, wrapping tensor.ErrInvalidDimension, when dims
// is empty or holds a non-positive size.
func Conditional(dims ...int) (*tensor.Table, error) {
	t, err := tensor.New(dims...)
	if err != nil {
		return nil, fmt.Errorf("Conditional%v: %w: %w", dims, ErrInvalidDimension, err)
	}

	return t, nil
}

// Evidence returns the indicator over ordinality states that is 1 at state
// and 0 elsewhere. Attached as a unary factor it clamps the variable.
func Evidence(ordinality, state int) (*tensor.Table, error) {
	if state < 0 || state >= ordinality {
		return nil, fmt.Errorf("Evidence(%d, %d): %w", ordinality, state, ErrInvalidDimension)
	}
	t, err := tensor.New(ordinality)
	if err != nil {
		return nil, err
	}
	t.SetLinear(state, 1)

	return t, nil
}

// Prior returns a rank-1 table holding probs.
func Prior(probs ...float64) (*tensor.Table, error) {
	return tensor.Vector(probs...)
}

// ValidateCPT checks that t sums to 1 (within eps) over childAxis for every
// assignment of the other axes.
func ValidateCPT(t *tensor.Table, childAxis int, eps float64) error {
	if t == nil {
		return fmt.Errorf("ValidateCPT: %w", tensor.ErrNilTable)
	}
	marg, err := t.SumOut(childAxis)
	if err != nil {
		return fmt.Errorf("ValidateCPT: %w", err)
	}
	for i := 0; i < marg.Len(); i++ {
		if s := marg.AtLinear(i); math.Abs(s-1) > eps {
			return fmt.Errorf("ValidateCPT: column %d sums to %g: %w", i, s, ErrNotNormalized)
		}
	}

	return nil
}
