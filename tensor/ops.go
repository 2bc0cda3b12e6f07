// SPDX-License-Identifier: MIT
// Package tensor - projection, broadcast and marginalization kernels.
//
// Determinism & Performance:
//   - Every kernel walks the flat buffer once in linear-index order.
//   - Axis coordinates are recovered from the precomputed strides,
//     coord_k(i) = (i / stride[k]) % d[k], so no multi-index is allocated per cell.
//   - In-place kernels validate all operands before touching any cell.

package tensor

import "fmt"

const (
	ctxProject   = "Project"
	ctxMultiply  = "MultiplyBroadcast"
	ctxDivide    = "DivideBroadcast"
	ctxMulVector = "MultiplyVector"
	ctxSumOut    = "SumOut"
	ctxSumOnto   = "SumOnto"
)

// Project returns the 1-D slice of values along the free axis.
// partial must have one entry per axis; partial[free] is ignored.
// Example: on a [2,3] CPT, Project([]int{1, 0}, 1) returns row 1 over axis 1.
// Complexity: O(d[free]).
func (t *Table) Project(partial []int, free int) ([]float64, error) {
	if free < 0 || free >= len(t.dims) {
		return nil, fmt.Errorf("Table.%s: free axis %d for rank %d: %w", ctxProject, free, len(t.dims), ErrAxisMismatch)
	}
	if len(partial) != len(t.dims) {
		return nil, fmt.Errorf("Table.%s: %d indices for rank %d: %w", ctxProject, len(partial), len(t.dims), ErrIndexOutOfBounds)
	}
	base := 0
	for k, i := range partial {
		if k == free {
			continue
		}
		if i < 0 || i >= t.dims[k] {
			return nil, fmt.Errorf("Table.%s: index %d on axis %d (size %d): %w", ctxProject, i, k, t.dims[k], ErrIndexOutOfBounds)
		}
		base += i * t.strides[k]
	}
	n, step := t.dims[free], t.strides[free]
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = t.data[base+i*step]
	}

	return out, nil
}

// MultiplyBroadcast multiplies t in place by other, where other's axis k is
// aligned with t's axis axes[k]:
//
//	t[i] *= other[ coord_{axes[0]}(i), ..., coord_{axes[m-1]}(i) ]
//
// This is how evidence or an incoming message is folded into a joint table.
// Errors: ErrNilTable; ErrAxisMismatch when len(axes) != rank(other), an axis
// is out of range or repeated, or the aligned axis sizes differ.
// Complexity: O(Π d · rank(other)).
func (t *Table) MultiplyBroadcast(other *Table, axes []int) error {
	if err := t.validateBroadcast(ctxMultiply, other, axes); err != nil {
		return err
	}
	t.broadcast(other, axes, func(a, b float64) float64 { return a * b })

	return nil
}

// DivideBroadcast is the inverse of MultiplyBroadcast: t[i] /= other[...].
// Cells whose divisor is 0 are set to 0 rather than ±Inf/NaN; this loses the
// information carried by t[i] and is documented as a precision limitation.
func (t *Table) DivideBroadcast(other *Table, axes []int) error {
	if err := t.validateBroadcast(ctxDivide, other, axes); err != nil {
		return err
	}
	t.broadcast(other, axes, func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		return a / b
	})

	return nil
}

// MultiplyVector scales axis k of t in place by w: t[i] *= w[coord_k(i)].
// It is MultiplyBroadcast specialised to a rank-1 operand held in a plain slice.
func (t *Table) MultiplyVector(axis int, w []float64) error {
	if axis < 0 || axis >= len(t.dims) {
		return fmt.Errorf("Table.%s: axis %d for rank %d: %w", ctxMulVector, axis, len(t.dims), ErrAxisMismatch)
	}
	if len(w) != t.dims[axis] {
		return fmt.Errorf("Table.%s: vector length %d for axis size %d: %w", ctxMulVector, len(w), t.dims[axis], ErrAxisMismatch)
	}
	stride, d := t.strides[axis], t.dims[axis]
	for i := range t.data {
		t.data[i] *= w[(i/stride)%d]
	}

	return nil
}

// validateBroadcast checks operand alignment before any cell is modified.
func (t *Table) validateBroadcast(method string, other *Table, axes []int) error {
	if other == nil {
		return tableErrorf(method, ErrNilTable)
	}
	if len(axes) != len(other.dims) {
		return fmt.Errorf("Table.%s: %d axes for operand rank %d: %w", method, len(axes), len(other.dims), ErrAxisMismatch)
	}
	seen := make(map[int]struct{}, len(axes))
	for k, a := range axes {
		if a < 0 || a >= len(t.dims) {
			return fmt.Errorf("Table.%s: axis %d for rank %d: %w", method, a, len(t.dims), ErrAxisMismatch)
		}
		if _, dup := seen[a]; dup {
			return fmt.Errorf("Table.%s: axis %d repeated: %w", method, a, ErrAxisMismatch)
		}
		seen[a] = struct{}{}
		if t.dims[a] != other.dims[k] {
			return fmt.Errorf("Table.%s: axis %d has size %d, operand axis %d has size %d: %w",
				method, a, t.dims[a], k, other.dims[k], ErrAxisMismatch)
		}
	}

	return nil
}

// broadcast applies fn cell-wise against the aligned operand. Operands must be
// validated by the caller.
func (t *Table) broadcast(other *Table, axes []int, fn func(a, b float64) float64) {
	for i := range t.data {
		off := 0
		for k, a := range axes {
			off += ((i / t.strides[a]) % t.dims[a]) * other.strides[k]
		}
		t.data[i] = fn(t.data[i], other.data[off])
	}
}

// SumOut marginalizes axis by summation and returns a new table with one axis fewer.
// Summing out the only axis of a rank-1 table yields a rank-0 scalar whose
// single cell holds the total.
//
// Implementation:
//   - A flat index decomposes as i = low + a*s + high*s*d, where s = stride[axis],
//     d = dims[axis] and low < s. The output index is low + high*s.
//
// Complexity: O(Π d).
func (t *Table) SumOut(axis int) (*Table, error) {
	if axis < 0 || axis >= len(t.dims) {
		return nil, fmt.Errorf("Table.%s: axis %d for rank %d: %w", ctxSumOut, axis, len(t.dims), ErrAxisMismatch)
	}
	dims := make([]int, 0, len(t.dims)-1)
	dims = append(dims, t.dims[:axis]...)
	dims = append(dims, t.dims[axis+1:]...)
	out := newTable(dims)

	s := t.strides[axis]
	block := s * t.dims[axis]
	for i, v := range t.data {
		out.data[i%s+(i/block)*s] += v
	}

	return out, nil
}

// SumOnto marginalizes every axis except keep and returns the resulting
// vector of length d[keep].
// Complexity: O(Π d).
func (t *Table) SumOnto(keep int) ([]float64, error) {
	if keep < 0 || keep >= len(t.dims) {
		return nil, fmt.Errorf("Table.%s: axis %d for rank %d: %w", ctxSumOnto, keep, len(t.dims), ErrAxisMismatch)
	}
	stride, d := t.strides[keep], t.dims[keep]
	out := make([]float64, d)
	for i, v := range t.data {
		out[(i/stride)%d] += v
	}

	return out, nil
}
