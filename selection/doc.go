// SPDX-License-Identifier: MIT

// Package selection is the interaction state machine over a tile.Index.
//
// A Machine receives Enter/Leave/Press inputs addressed to one wedge and,
// depending on two orthogonal modes, updates wedge flags and emits typed
// events:
//
//	cursor mode  cell  : the input targets (i,j) only
//	             level : the input fans out to every (i,j') at level i
//	click mode   show  : Press emits ShowRequested, nothing changes
//	             select: Press toggles Chosen on each target independently
//
// Events are queued in order while an input is processed and handed to
// observers only after the whole fan-out completed; Drain returns and
// clears the queue for pull-style callers.
//
// Unavailable wedges ignore every input without error. Edited is a flag of
// its own and never influences toggling.
package selection
