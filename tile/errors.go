// SPDX-License-Identifier: MIT
// Package tile: sentinel errors. Match with errors.Is.

package tile

import (
	"errors"
	"fmt"
)

var (
	// ErrBadConfig indicates an unsupported tile configuration or geometry argument.
	ErrBadConfig = errors.New("tile: invalid configuration")

	// ErrOutOfRange indicates a (level, angle) outside the current index.
	// Lookups never clamp.
	ErrOutOfRange = errors.New("tile: index out of range")

	// ErrNotReady indicates the index has not been initialized yet.
	ErrNotReady = errors.New("tile: index not initialized")
)

// tileErrorf tags err with the failing operation and its arguments.
func tileErrorf(op string, level, angle int, err error) error {
	return fmt.Errorf("%s(%d,%d): %w", op, level, angle, err)
}
