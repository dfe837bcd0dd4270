// SPDX-License-Identifier: MIT

// Package curvelet holds the coefficient-side data model: the nested
// CoefficientStructure (scale levels of angle-wedge blocks), the matching
// EnergyReference, and the contract of the external transform provider.
//
// What:
//
//   - Key names one wedge (Level i, Angle j).
//   - AngleCount gives m(i): 1 at level 0, nba·2^(i div 2) above.
//   - Structure is an immutable-by-convention [][]*matrix.Dense; Clone and
//     Block hand out copies or read-only views, never mutable aliases.
//   - Energy is the per-block scalar normalisation of identical shape.
//   - Provider is the forward/inverse transform collaborator; it is not
//     implemented here. Fixture builds deterministic pseudo-random
//     structures for demos and tests.
//
// Errors:
//
//   - ErrBadShape: a level or block count is invalid (empty level, nil block).
//   - ErrShape: two shapes that must agree do not.
//   - ErrOutOfRange: a (level, angle) pair outside the structure.
package curvelet
