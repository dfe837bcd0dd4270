// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the element-wise kernels the hard-threshold operator is made of:
//     the strict comparison |X| > t fused with the masking product (KeepAbove)
//     and the CountNonZero tally.
//
// Design:
//   - Every kernel allocates its output and never writes to an operand, so a
//     shared immutable input may be passed to any number of calls.
//   - Fixed flat loop order 0..n-1; results are bit-identical across runs.
//
// Numeric policy:
//   - The comparison is strict: an entry equal to the threshold is dropped,
//     which makes a zero threshold remove exactly the entries that are 0.
//   - NaN entries never satisfy the comparison and are therefore dropped.

package matrix

import "math"

// KeepAbove keeps the entries above the threshold:
// out[k] = x[k] when |x[k]| > t, otherwise 0. It also returns how many
// entries were kept.
// Complexity: O(r*c), one allocation.
func KeepAbove(x *Dense, t float64) (*Dense, int, error) {
	if err := ValidateNotNil(x); err != nil {
		return nil, 0, matrixErrorf("KeepAbove", err)
	}
	if err := ValidateFinite(t); err != nil {
		return nil, 0, matrixErrorf("KeepAbove", err)
	}
	out := &Dense{r: x.r, c: x.c, data: make([]float64, len(x.data))}
	kept := 0
	for k, v := range x.data {
		if math.Abs(v) > t {
			out.data[k] = v
			kept++
		}
	}

	return out, kept, nil
}

// CountNonZero returns how many entries of x differ from 0.
// Complexity: O(r*c).
func CountNonZero(x *Dense) int {
	if x == nil {
		return 0
	}
	n := 0
	for _, v := range x.data {
		if v != 0 {
			n++
		}
	}

	return n
}
