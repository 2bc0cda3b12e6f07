// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// Every message is prefixed with "tensor: ..." so it can be grepped in logs.
// Methods wrap these sentinels with call-site context via tableErrorf; callers
// branch with errors.Is.

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension indicates a table without axes or an axis of size <= 0.
	ErrInvalidDimension = errors.New("tensor: dimensions must be > 0")

	// ErrIndexOutOfBounds indicates a multi-index of the wrong arity or with a
	// component outside [0, d[k]).
	ErrIndexOutOfBounds = errors.New("tensor: index out of bounds")

	// ErrAxisMismatch indicates incompatible axes between two tables, an axis
	// number outside the table rank, or a vector whose length does not match
	// the axis it is applied to.
	ErrAxisMismatch = errors.New("tensor: axis mismatch")

	// ErrNaNInf indicates a NaN or ±Inf passed to a checked setter.
	ErrNaNInf = errors.New("tensor: NaN or Inf value")

	// ErrZeroMass indicates normalization of a table whose values sum to 0.
	ErrZeroMass = errors.New("tensor: table sums to zero")

	// ErrNilTable indicates a nil *Table operand.
	ErrNilTable = errors.New("tensor: nil table")
)

// tableErrorf wraps err with the method tag, e.g. "Table.At: tensor: index out of bounds".
func tableErrorf(method string, err error) error {
	return fmt.Errorf("Table.%s: %w", method, err)
}
