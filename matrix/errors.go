// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Every kernel returns one of these sentinels, possibly wrapped with
// fmt.Errorf("ctx: %w", ErrX); callers match them via errors.Is.
// No kernel panics on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates that requested dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNaNInf signals a NaN or ±Inf value where a finite one is required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// matrixErrorf tags err with the name of the failing operation.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}
