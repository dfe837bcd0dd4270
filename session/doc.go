// SPDX-License-Identifier: MIT

// Package session binds one tile index, its selection machine and the
// threshold engine to a loaded coefficient structure, and serializes every
// call through one mutex so HTTP and terminal inputs are processed one at
// a time.
//
// Lifecycle: New → Load (or LoadFixture) → Deliver/SetFactor/Apply...
// Calls that need a structure before Load fail with ErrNotReady.
package session
