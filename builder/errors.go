// SPDX-License-Identifier: MIT
// Package: builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w.
//   • Constructors never panic; validation panics are confined to WithX options.
//   • Errors coming from factorgraph/factor are wrapped, never replaced, so
//     errors.Is(err, factorgraph.ErrUnknownNode) keeps working.

package builder

import (
	"errors"
	"fmt"
)

// ErrTooFewVariables indicates a size parameter (n, rows, cols) below the
// minimum for the requested constructor.
var ErrTooFewVariables = errors.New("builder: parameter too small")

// ErrObservationCount indicates an observation slice whose length differs from
// rows*cols.
var ErrObservationCount = errors.New("builder: observation count mismatch")

// ErrInvalidObservation indicates an observation outside {0, 1}.
var ErrInvalidObservation = errors.New("builder: observation must be 0 or 1")

// ErrInvalidProbability indicates a probability outside [0, 1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrUnknownLabelScheme indicates a label scheme name ParseLabelScheme does
// not know.
var ErrUnknownLabelScheme = errors.New("builder: unknown label scheme")

// ErrConstructFailed indicates a construction step could not be applied
// (nil constructor, nil graph).
var ErrConstructFailed = errors.New("builder: construction failed")

// builderErrorf wraps err with the constructor name and a formatted detail:
// "<Method>: <detail>: <err>".
func builderErrorf(method string, err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
