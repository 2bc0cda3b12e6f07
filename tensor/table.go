// SPDX-License-Identifier: MIT

// Package tensor - Table storage (axis 0 fastest) & safe accessors.
//
// Purpose:
//   - Hold an N-dimensional table in one contiguous buffer with precomputed strides.
//   - Guarantee safety at the public surface: checked accessors return errors.
//   - Offer unchecked linear accessors for message-passing kernels.

package tensor

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxNew         = "New"
	ctxFromValues  = "FromValues"
	ctxAt          = "At"
	ctxSet         = "Set"
	ctxLinearize   = "Linearize"
	ctxUnlinearize = "Unlinearize"
	ctxNormalize   = "Normalize"
)

// Table is a dense N-dimensional array of float64 values.
//   - dims holds the size of every axis (each > 0); len(dims) is the rank.
//   - strides[k] is the flat distance between consecutive indices on axis k.
//   - data holds Π dims values (a rank-0 scalar holds exactly one value).
type Table struct {
	dims    []int     // axis sizes
	strides []int     // stride[0]=1, stride[k]=stride[k-1]*dims[k-1]
	data    []float64 // flat storage, len == Π dims
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Table)(nil)

// New creates a zero-filled table with the given axis sizes.
// Stage 1 (Validate): at least one axis, every axis > 0.
// Stage 2 (Prepare): compute strides and total length.
// Stage 3 (Finalize): allocate the flat buffer.
// Complexity: O(Π dims) time and memory.
func New(dims ...int) (*Table, error) {
	if len(dims) == 0 {
		return nil, tableErrorf(ctxNew, ErrInvalidDimension)
	}
	for k, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("Table.%s: axis %d has size %d: %w", ctxNew, k, d, ErrInvalidDimension)
		}
	}

	return newTable(dims), nil
}

// FromValues creates a table with the given dims and copies values into it.
// len(values) must equal Π dims. Values are validated against the NaN/Inf policy.
func FromValues(dims []int, values []float64) (*Table, error) {
	t, err := New(dims...)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.data) {
		return nil, fmt.Errorf("Table.%s: %d values for %d cells: %w",
			ctxFromValues, len(values), len(t.data), ErrAxisMismatch)
	}
	for i, v := range values {
		if isNonFinite(v) {
			return nil, fmt.Errorf("Table.%s: value %d: %w", ctxFromValues, i, ErrNaNInf)
		}
	}
	copy(t.data, values)

	return t, nil
}

// Vector is a shorthand for a rank-1 table holding a copy of values.
func Vector(values ...float64) (*Table, error) {
	return FromValues([]int{len(values)}, values)
}

// newTable allocates a table for already validated dims. An empty dims slice
// yields a rank-0 scalar with a single cell (the result of summing out the
// last axis).
func newTable(dims []int) *Table {
	rank := len(dims)
	t := &Table{
		dims:    make([]int, rank),
		strides: make([]int, rank),
	}
	size := 1
	for k := 0; k < rank; k++ {
		t.dims[k] = dims[k]
		t.strides[k] = size
		size *= dims[k]
	}
	t.data = make([]float64, size)

	return t
}

// Rank returns the number of axes (0 for a scalar).
func (t *Table) Rank() int { return len(t.dims) }

// Len returns the number of cells, Π dims.
func (t *Table) Len() int { return len(t.data) }

// Dim returns the size of axis k, or 0 if k is not an axis.
func (t *Table) Dim(k int) int {
	if k < 0 || k >= len(t.dims) {
		return 0
	}
	return t.dims[k]
}

// Dims returns a copy of the axis sizes.
func (t *Table) Dims() []int {
	out := make([]int, len(t.dims))
	copy(out, t.dims)
	return out
}

// Strides returns a copy of the precomputed strides.
func (t *Table) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)
	return out
}

// Values returns a copy of the flat buffer in linear-index order.
func (t *Table) Values() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// offset validates idx against the table shape and returns its flat index.
func (t *Table) offset(method string, idx []int) (int, error) {
	if len(idx) != len(t.dims) {
		return 0, fmt.Errorf("Table.%s: %d indices for rank %d: %w", method, len(idx), len(t.dims), ErrIndexOutOfBounds)
	}
	flat := 0
	for k, i := range idx {
		if i < 0 || i >= t.dims[k] {
			return 0, fmt.Errorf("Table.%s: index %d on axis %d (size %d): %w", method, i, k, t.dims[k], ErrIndexOutOfBounds)
		}
		flat += i * t.strides[k]
	}

	return flat, nil
}

// Linearize maps a multi-index to its flat index: Σ idx[k]*stride[k].
func (t *Table) Linearize(idx []int) (int, error) {
	return t.offset(ctxLinearize, idx)
}

// Unlinearize maps a flat index back to its multi-index.
// Complexity: O(rank).
func (t *Table) Unlinearize(flat int) ([]int, error) {
	if flat < 0 || flat >= len(t.data) {
		return nil, fmt.Errorf("Table.%s: flat index %d (len %d): %w", ctxUnlinearize, flat, len(t.data), ErrIndexOutOfBounds)
	}
	idx := make([]int, len(t.dims))
	for k := range t.dims {
		idx[k] = (flat / t.strides[k]) % t.dims[k]
	}

	return idx, nil
}

// At returns the value at the multi-index idx.
func (t *Table) At(idx []int) (float64, error) {
	flat, err := t.offset(ctxAt, idx)
	if err != nil {
		return 0, err
	}
	return t.data[flat], nil
}

// Set stores v at the multi-index idx.
func (t *Table) Set(idx []int, v float64) error {
	if isNonFinite(v) {
		return tableErrorf(ctxSet, ErrNaNInf)
	}
	flat, err := t.offset(ctxSet, idx)
	if err != nil {
		return err
	}
	t.data[flat] = v

	return nil
}

// At1 is At for rank-1 tables without allocating a multi-index.
func (t *Table) At1(i int) (float64, error) {
	if len(t.dims) != 1 || i < 0 || i >= t.dims[0] {
		return 0, fmt.Errorf("Table.%s(%d): %w", ctxAt, i, ErrIndexOutOfBounds)
	}
	return t.data[i], nil
}

// At2 is At for rank-2 tables.
func (t *Table) At2(i, j int) (float64, error) {
	if len(t.dims) != 2 || i < 0 || i >= t.dims[0] || j < 0 || j >= t.dims[1] {
		return 0, fmt.Errorf("Table.%s(%d,%d): %w", ctxAt, i, j, ErrIndexOutOfBounds)
	}
	return t.data[i+j*t.strides[1]], nil
}

// At3 is At for rank-3 tables.
func (t *Table) At3(i, j, k int) (float64, error) {
	if len(t.dims) != 3 || i < 0 || i >= t.dims[0] || j < 0 || j >= t.dims[1] || k < 0 || k >= t.dims[2] {
		return 0, fmt.Errorf("Table.%s(%d,%d,%d): %w", ctxAt, i, j, k, ErrIndexOutOfBounds)
	}
	return t.data[i+j*t.strides[1]+k*t.strides[2]], nil
}

// Set1 is Set for rank-1 tables.
func (t *Table) Set1(i int, v float64) error {
	if isNonFinite(v) {
		return tableErrorf(ctxSet, ErrNaNInf)
	}
	if len(t.dims) != 1 || i < 0 || i >= t.dims[0] {
		return fmt.Errorf("Table.%s(%d): %w", ctxSet, i, ErrIndexOutOfBounds)
	}
	t.data[i] = v

	return nil
}

// Set2 is Set for rank-2 tables.
func (t *Table) Set2(i, j int, v float64) error {
	if isNonFinite(v) {
		return tableErrorf(ctxSet, ErrNaNInf)
	}
	if len(t.dims) != 2 || i < 0 || i >= t.dims[0] || j < 0 || j >= t.dims[1] {
		return fmt.Errorf("Table.%s(%d,%d): %w", ctxSet, i, j, ErrIndexOutOfBounds)
	}
	t.data[i+j*t.strides[1]] = v

	return nil
}

// Set3 is Set for rank-3 tables.
func (t *Table) Set3(i, j, k int, v float64) error {
	if isNonFinite(v) {
		return tableErrorf(ctxSet, ErrNaNInf)
	}
	if len(t.dims) != 3 || i < 0 || i >= t.dims[0] || j < 0 || j >= t.dims[1] || k < 0 || k >= t.dims[2] {
		return fmt.Errorf("Table.%s(%d,%d,%d): %w", ctxSet, i, j, k, ErrIndexOutOfBounds)
	}
	t.data[i+j*t.strides[1]+k*t.strides[2]] = v

	return nil
}

// AtLinear returns the value at flat index i. Unchecked: panics like a slice
// access when i is outside [0, Len()).
func (t *Table) AtLinear(i int) float64 { return t.data[i] }

// SetLinear stores v at flat index i. Unchecked, and the NaN/Inf policy is
// not applied.
func (t *Table) SetLinear(i int, v float64) { t.data[i] = v }

// Fill sets every cell to v.
func (t *Table) Fill(v float64) error {
	if isNonFinite(v) {
		return tableErrorf("Fill", ErrNaNInf)
	}
	for i := range t.data {
		t.data[i] = v
	}
	return nil
}

// Clone returns a deep copy of the table.
// Complexity: O(Π dims).
func (t *Table) Clone() *Table {
	c := &Table{
		dims:    make([]int, len(t.dims)),
		strides: make([]int, len(t.strides)),
		data:    make([]float64, len(t.data)),
	}
	copy(c.dims, t.dims)
	copy(c.strides, t.strides)
	copy(c.data, t.data)

	return c
}

// Sum returns the sum of all cells.
func (t *Table) Sum() float64 {
	var s float64
	for _, v := range t.data {
		s += v
	}
	return s
}

// Normalize scales the table in place so that its cells sum to 1.
// Returns ErrZeroMass when the total is 0.
func (t *Table) Normalize() error {
	s := t.Sum()
	if s == 0 {
		return tableErrorf(ctxNormalize, ErrZeroMass)
	}
	inv := 1 / s
	for i := range t.data {
		t.data[i] *= inv
	}

	return nil
}

// String lists every cell with its multi-index, most significant axis first:
//
//	[2 3]
//	 0 0 : 0.99
//	 0 1 : 0.01
//	 ...
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v\n", t.dims)
	rank := len(t.dims)
	for i, v := range t.data {
		for k := rank - 1; k >= 0; k-- {
			fmt.Fprintf(&b, " %d", (i/t.strides[k])%t.dims[k])
		}
		fmt.Fprintf(&b, " : %g\n", v)
	}

	return b.String()
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
