// SPDX-License-Identifier: MIT

package selection

import "errors"

var (
	// ErrNotReady indicates an input arrived before the tile index was initialized.
	ErrNotReady = errors.New("selection: tile index not initialized")

	// ErrBadMode indicates an unknown cursor, click or input kind name.
	ErrBadMode = errors.New("selection: unknown mode")
)
