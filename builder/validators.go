// SPDX-License-Identifier: MIT
// Package builder provides validation helpers that enforce parameter
// contracts in constructors. Each returns a sentinel wrapped with context.

package builder

// validateMin ensures got ≥ min, else ErrTooFewVariables.
// Complexity: O(1).
func validateMin(method string, got, min int) error {
	if got < min {
		return builderErrorf(method, ErrTooFewVariables, "parameter must be ≥ %d, got %d", min, got)
	}

	return nil
}

// validateProbability enforces p ∈ [MinProbability, MaxProbability].
// Complexity: O(1).
func validateProbability(method string, p float64) error {
	if !(p >= MinProbability && p <= MaxProbability) {
		return builderErrorf(method, ErrInvalidProbability, "probability must be in [%.1f,%.1f], got %g", MinProbability, MaxProbability, p)
	}

	return nil
}

// validateObservations checks len(obs) == rows*cols and every value in {0,1}.
// Complexity: O(len(obs)).
func validateObservations(method string, rows, cols int, obs []int) error {
	if len(obs) != rows*cols {
		return builderErrorf(method, ErrObservationCount, "%d observations for a %d×%d grid", len(obs), rows, cols)
	}
	for i, o := range obs {
		if o != 0 && o != 1 {
			return builderErrorf(method, ErrInvalidObservation, "pixel %d = %d", i, o)
		}
	}

	return nil
}
