// SPDX-License-Identifier: MIT

// Package display renders a session's tile in a terminal with tcell and
// turns mouse movement into Enter/Leave/Press inputs.
package display
