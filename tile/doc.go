// SPDX-License-Identifier: MIT

// Package tile builds the digital curvelet tile: every scale level is a
// square corona split into angular wedges whose edges are snapped to the
// square boundary instead of following circular arcs.
//
// What:
//
//   - BuildWedge maps (level, angle, base unit, angle count) to the four
//     vertices of one wedge, exactly, including angles on multiples of π/2.
//   - Index is a fixed-shape arena of WedgeRecord values for one
//     configuration (scales, angles, all-curvelets flag), rebuilt wholesale
//     by Initialize.
//   - WedgeRecord carries the polygon and the hover/chosen/edited flags
//     whose combination is the rendered Status.
//   - Locate maps a tile-local point back to the wedge containing it.
//
// Geometry:
//
//	level 0      : square [-a,a]²
//	level i > 0  : corona between Chebyshev radii 2^(i-1)·a and 2^i·a,
//	               m(i) wedges bounded by rays at θ = 2πj/m(i).
//
// Complexity:
//
//   - Initialize: O(W) time and memory, W = total wedge count.
//   - Lookup, Locate: O(1).
//
// Errors:
//
//   - ErrBadConfig: scales outside [3,19], angles not in {8,16,32,64},
//     or an invalid geometry argument.
//   - ErrOutOfRange: a (level, angle) outside the current index.
//   - ErrNotReady: the index was used before Initialize.
package tile
