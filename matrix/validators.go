// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single source of truth for the nil and finiteness guards used
//    by the element-wise kernels.
//  - Return tagged sentinels so call sites can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.

package matrix

import "math"

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return matrixErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf scalars.
// Complexity: O(1).
func ValidateFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return matrixErrorf("ValidateFinite", ErrNaNInf)
	}

	return nil
}
