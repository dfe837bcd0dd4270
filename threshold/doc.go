// SPDX-License-Identifier: MIT

// Package threshold derives a denoised coefficient structure from an
// immutable original, a per-wedge energy reference, a factor and a
// selection of wedges.
//
// For each wedge (i, j):
//
//	i == 0               : copied unchanged
//	i > 0, selected      : out = x ⊙ (|x| > factor·E[i][j])
//	i > 0, not selected  : copied unchanged
//
// An empty selection selects every wedge. The comparison is strict, so a
// zero factor zeroes exactly the entries that are already zero.
//
// Apply never touches its inputs and always returns a freshly allocated
// structure; identical inputs give bit-identical outputs.
//
// Complexity: O(total coefficients) time and memory per call.
package threshold
