// Package tensor_test contains unit tests for the Table accessors.
package tensor_test

import (
	"math"
	"testing"

	"github.com/dobots/aim-sub000/tensor"
	"github.com/stretchr/testify/require"
)

// TestNewInvalidDimension ensures New rejects missing and non-positive axes.
func TestNewInvalidDimension(t *testing.T) {
	_, err := tensor.New()
	require.ErrorIs(t, err, tensor.ErrInvalidDimension)

	_, err = tensor.New(2, 0, 3)
	require.ErrorIs(t, err, tensor.ErrInvalidDimension)

	_, err = tensor.New(-1)
	require.ErrorIs(t, err, tensor.ErrInvalidDimension)
}

// TestShapeAndStrides verifies stride[0]=1 and stride[k]=stride[k-1]*d[k-1].
func TestShapeAndStrides(t *testing.T) {
	tb, err := tensor.New(2, 3, 4)
	require.NoError(t, err)

	require.Equal(t, 3, tb.Rank())
	require.Equal(t, 24, tb.Len())
	require.Equal(t, []int{2, 3, 4}, tb.Dims())
	require.Equal(t, []int{1, 2, 6}, tb.Strides())
	require.Equal(t, 3, tb.Dim(1))
	require.Equal(t, 0, tb.Dim(7))
	require.Equal(t, 0.0, tb.Sum()) // zero-initialized
}

// TestSetGetRoundTrip checks set(idx, v); get(idx) == v for every valid index.
func TestSetGetRoundTrip(t *testing.T) {
	tb, err := tensor.New(3, 2, 2)
	require.NoError(t, err)

	for flat := 0; flat < tb.Len(); flat++ {
		idx, err := tb.Unlinearize(flat)
		require.NoError(t, err)
		v := float64(flat)*0.5 + 1
		require.NoError(t, tb.Set(idx, v))

		got, err := tb.At(idx)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

// TestLinearEquivalence checks get(idx) == get_linear(linearize(idx)).
func TestLinearEquivalence(t *testing.T) {
	tb, err := tensor.New(2, 3, 2)
	require.NoError(t, err)
	for flat := 0; flat < tb.Len(); flat++ {
		tb.SetLinear(flat, float64(flat*flat))
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				idx := []int{i, j, k}
				flat, err := tb.Linearize(idx)
				require.NoError(t, err)
				require.Equal(t, i+j*2+k*6, flat)

				v, err := tb.At(idx)
				require.NoError(t, err)
				require.Equal(t, tb.AtLinear(flat), v)

				v3, err := tb.At3(i, j, k)
				require.NoError(t, err)
				require.Equal(t, v, v3)

				back, err := tb.Unlinearize(flat)
				require.NoError(t, err)
				require.Equal(t, idx, back)
			}
		}
	}
}

// TestOutOfBounds ensures checked accessors report ErrIndexOutOfBounds.
func TestOutOfBounds(t *testing.T) {
	tb, err := tensor.New(2, 3)
	require.NoError(t, err)

	_, err = tb.At([]int{2, 0})
	require.ErrorIs(t, err, tensor.ErrIndexOutOfBounds)

	_, err = tb.At([]int{0})
	require.ErrorIs(t, err, tensor.ErrIndexOutOfBounds) // wrong arity

	require.ErrorIs(t, tb.Set([]int{0, -1}, 1), tensor.ErrIndexOutOfBounds)
	require.ErrorIs(t, tb.Set2(0, 3, 1), tensor.ErrIndexOutOfBounds)
	require.ErrorIs(t, tb.Set1(0, 1), tensor.ErrIndexOutOfBounds) // rank mismatch
	require.ErrorIs(t, tb.Set3(0, 0, 0, 1), tensor.ErrIndexOutOfBounds)

	_, err = tb.At2(-1, 0)
	require.ErrorIs(t, err, tensor.ErrIndexOutOfBounds)

	_, err = tb.Unlinearize(6)
	require.ErrorIs(t, err, tensor.ErrIndexOutOfBounds)
}

// TestNaNInfRejected covers the numeric policy of checked setters.
func TestNaNInfRejected(t *testing.T) {
	tb, err := tensor.New(2)
	require.NoError(t, err)

	require.ErrorIs(t, tb.Set1(0, math.NaN()), tensor.ErrNaNInf)
	require.ErrorIs(t, tb.Set([]int{1}, math.Inf(1)), tensor.ErrNaNInf)
	require.ErrorIs(t, tb.Fill(math.Inf(-1)), tensor.ErrNaNInf)

	_, err = tensor.Vector(1, math.NaN())
	require.ErrorIs(t, err, tensor.ErrNaNInf)
}

// TestFromValues checks value copy and length validation.
func TestFromValues(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	tb, err := tensor.FromValues([]int{2, 2}, src)
	require.NoError(t, err)
	src[0] = 100 // the table owns its copy
	v, err := tb.At2(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
	v, err = tb.At2(0, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	_, err = tensor.FromValues([]int{2, 2}, []float64{1, 2, 3})
	require.ErrorIs(t, err, tensor.ErrAxisMismatch)
}

// TestCloneIndependence ensures Clone does not share storage.
func TestCloneIndependence(t *testing.T) {
	tb, err := tensor.Vector(1, 2)
	require.NoError(t, err)
	c := tb.Clone()
	require.NoError(t, c.Set1(0, 9))

	v, err := tb.At1(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

// TestNormalize covers the happy path and the zero-mass error.
func TestNormalize(t *testing.T) {
	tb, err := tensor.Vector(1, 3)
	require.NoError(t, err)
	require.NoError(t, tb.Normalize())
	require.Equal(t, []float64{0.25, 0.75}, tb.Values())

	z, err := tensor.New(3)
	require.NoError(t, err)
	require.ErrorIs(t, z.Normalize(), tensor.ErrZeroMass)
}

// TestStringOutput checks the listing order: most significant axis first.
func TestStringOutput(t *testing.T) {
	tb, err := tensor.FromValues([]int{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	expected := "[2 2]\n 0 0 : 1\n 0 1 : 2\n 1 0 : 3\n 1 1 : 4\n"
	require.Equal(t, expected, tb.String())
}
