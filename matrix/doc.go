// SPDX-License-Identifier: MIT

// Package matrix provides the dense 2D numeric block used for curvelet
// coefficients, together with the element-wise kernels the threshold
// engine is built on.
//
// What:
//
//   - Dense is a row-major rows×cols array of float64 stored in one flat slice.
//   - KeepAbove, the masking kernel, always allocates a fresh output and
//     never mutates its operand. CountNonZero tallies the kept entries.
//   - Validators centralise the nil and finiteness guards shared by every kernel.
//
// Why:
//
//   - Curvelet blocks are produced once per image and treated as immutable;
//     value semantics (Clone, fresh outputs) make repeated thresholding
//     order-insensitive.
//   - A flat buffer keeps the hot loops branch-light and cache friendly.
//
// Complexity:
//
//   - NewDense, Clone, every kernel: O(r·c) time and memory.
//   - At, Set, Rows, Cols: O(1).
//
// Errors:
//
//   - ErrInvalidDimensions: requested shape has a non-positive side.
//   - ErrOutOfRange: At/Set index outside the block.
//   - ErrDimensionMismatch: ragged rows or a data slice of the wrong length.
//   - ErrNilMatrix: a nil *Dense was passed.
//   - ErrNaNInf: a non-finite threshold was passed to a masking kernel.
package matrix
