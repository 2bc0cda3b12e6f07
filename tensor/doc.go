// SPDX-License-Identifier: MIT

// Package tensor provides the dense N-dimensional table that backs conditional
// probability tables, factor potentials and message vectors.
//
// Layout:
//
//	A Table with dimensions [d0, d1, ..., dn-1] stores Π dk float64 values in a
//	single flat slice. Axis 0 varies fastest:
//
//	    stride[0] = 1
//	    stride[k] = stride[k-1] * d[k-1]
//	    flat      = Σ index[k] * stride[k]
//
//	This is the only layout the package supports; every accessor, broadcast
//	and marginalization kernel is written against it.
//
// Safety:
//
//   - At/Set and the At1..At3/Set1..Set3 helpers are bounds-checked and return
//     ErrIndexOutOfBounds instead of panicking.
//   - AtLinear/SetLinear are unchecked O(1) accessors for hot loops where the
//     caller already owns a valid flat index (message passing).
//   - Checked setters reject NaN and ±Inf with ErrNaNInf.
//
// Operations:
//
//   - Project:           1-D slice along a free axis (a row of a CPT, a marginal).
//   - MultiplyBroadcast: in-place product with a table aligned to a subset of axes.
//   - DivideBroadcast:   in-place quotient with the x/0 := 0 policy.
//   - MultiplyVector:    in-place scaling of one axis by a weight vector.
//   - SumOut:            marginalize a single axis (rank drops by one).
//   - SumOnto:           marginalize every axis but one.
//
// Complexity quicksheet:
//
//	New: O(N) zero-init; At/Set: O(rank); AtLinear/SetLinear: O(1);
//	Project: O(d[free]); MultiplyBroadcast: O(N·rank(other)); SumOut/SumOnto: O(N).
package tensor
