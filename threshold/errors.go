// SPDX-License-Identifier: MIT

package threshold

import "errors"

var (
	// ErrShape indicates the structure and energy reference differ in shape.
	ErrShape = errors.New("threshold: shape mismatch")

	// ErrBadFactor indicates a negative or NaN factor.
	ErrBadFactor = errors.New("threshold: factor must be a non-negative number")

	// ErrNilInput indicates a nil structure or energy reference.
	ErrNilInput = errors.New("threshold: nil input")
)
