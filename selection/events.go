// SPDX-License-Identifier: MIT

package selection

import (
	"fmt"

	"github.com/katalvlaran/digitile/curvelet"
)

// EventKind tags an emitted Event.
type EventKind int

const (
	// Entered: the cursor entered (Level, Angle).
	Entered EventKind = iota
	// ShowRequested: the renderer should display block (Level, Angle).
	ShowRequested
	// SelectionChanged: the selection set changed; NonEmpty reports whether
	// any wedge is still chosen.
	SelectionChanged
)

var eventNames = [...]string{"entered", "show_requested", "selection_changed"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}

	return eventNames[k]
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is one notification produced by the machine.
type Event struct {
	Kind  EventKind `json:"kind"`
	Level int       `json:"level"`
	Angle int       `json:"angle"`
	// Interactive is true for ShowRequested caused by a click, false for
	// ShowSelected replays.
	Interactive bool `json:"interactive,omitempty"`
	// NonEmpty is set on SelectionChanged when the set holds any wedge.
	NonEmpty bool `json:"non_empty,omitempty"`
}

// Key returns the wedge the event refers to.
func (e Event) Key() curvelet.Key { return curvelet.Key{Level: e.Level, Angle: e.Angle} }

func (e Event) String() string {
	switch e.Kind {
	case SelectionChanged:
		return fmt.Sprintf("%s(%t)", e.Kind, e.NonEmpty)
	default:
		return fmt.Sprintf("%s%s", e.Kind, e.Key())
	}
}

// Observer receives events after each input is fully processed.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }
