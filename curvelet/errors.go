// SPDX-License-Identifier: MIT
// Package curvelet: sentinel errors.
// Callers branch with errors.Is; context is attached with %w.

package curvelet

import "errors"

var (
	// ErrBadShape indicates a structurally invalid structure or energy
	// (no levels, an empty level, a nil block, a non-finite energy).
	ErrBadShape = errors.New("curvelet: invalid shape")

	// ErrShape indicates that two shapes which must be identical differ.
	ErrShape = errors.New("curvelet: shape mismatch")

	// ErrOutOfRange indicates a (level, angle) outside the structure.
	ErrOutOfRange = errors.New("curvelet: index out of range")
)
