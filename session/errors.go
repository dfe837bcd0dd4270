// SPDX-License-Identifier: MIT

package session

import "errors"

var (
	// ErrNotReady indicates the session has no loaded structure yet.
	ErrNotReady = errors.New("session: not loaded")

	// ErrNoStructure indicates Load was called without a structure or energy.
	ErrNoStructure = errors.New("session: missing structure or energy")
)
