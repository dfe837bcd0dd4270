// SPDX-License-Identifier: MIT

package tile

import "github.com/katalvlaran/digitile/curvelet"

// Status is the rendered state of a wedge.
type Status int

const (
	StatusNormal Status = iota
	StatusHover
	StatusChosen
	StatusEdited
	StatusUnavailable
)

var statusNames = [...]string{"normal", "hover", "chosen", "edited", "unavailable"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}

	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// WedgeRecord is one wedge of the tile. Records live inside an Index arena
// and are mutated only through their methods, which refuse every change on
// an unavailable wedge.
type WedgeRecord struct {
	key       curvelet.Key
	polygon   Polygon
	available bool

	hover  bool
	chosen bool
	edited bool
}

// Key returns the (level, angle) of the wedge.
func (w *WedgeRecord) Key() curvelet.Key { return w.key }

// Polygon returns the tile-local outline.
func (w *WedgeRecord) Polygon() Polygon { return w.polygon }

// Available reports whether the wedge accepts interaction.
func (w *WedgeRecord) Available() bool { return w.available }

// Hovered reports the transient hover flag.
func (w *WedgeRecord) Hovered() bool { return w.hover }

// Chosen reports membership in the selection.
func (w *WedgeRecord) Chosen() bool { return w.chosen }

// Edited reports whether the wedge was processed by the last threshold pass.
func (w *WedgeRecord) Edited() bool { return w.edited }

// Status folds the flags into one value:
// Unavailable > Hover > Chosen > Edited > Normal.
func (w *WedgeRecord) Status() Status {
	switch {
	case !w.available:
		return StatusUnavailable
	case w.hover:
		return StatusHover
	case w.chosen:
		return StatusChosen
	case w.edited:
		return StatusEdited
	default:
		return StatusNormal
	}
}

// SetHover sets the transient hover flag. It reports whether the flag changed.
func (w *WedgeRecord) SetHover(on bool) bool {
	if !w.available || w.hover == on {
		return false
	}
	w.hover = on

	return true
}

// ToggleChosen flips the chosen flag and returns the new value.
// Unavailable wedges stay unchosen.
func (w *WedgeRecord) ToggleChosen() bool {
	if !w.available {
		return false
	}
	w.chosen = !w.chosen

	return w.chosen
}

// SetChosen forces the chosen flag. It reports whether the flag changed.
func (w *WedgeRecord) SetChosen(on bool) bool {
	if !w.available || w.chosen == on {
		return false
	}
	w.chosen = on

	return true
}

// SetEdited sets the edited flag. It reports whether the flag changed.
func (w *WedgeRecord) SetEdited(on bool) bool {
	if !w.available || w.edited == on {
		return false
	}
	w.edited = on

	return true
}
