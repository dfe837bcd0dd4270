// SPDX-License-Identifier: MIT

package selection

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/tile"
)

// Machine tracks hover, selection and edited state over one tile.Index.
// It is not safe for concurrent use; callers serialize inputs.
type Machine struct {
	index  *tile.Index
	cursor CursorMode
	click  ClickMode

	chosen map[curvelet.Key]struct{}

	queue     []Event
	observers []Observer
}

// New returns a machine bound to index. The machine clears its selection
// whenever the index is rebuilt.
func New(index *tile.Index, opts ...Option) *Machine {
	if index == nil {
		panic("selection: New: nil index")
	}
	m := &Machine{
		index:  index,
		chosen: make(map[curvelet.Key]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	index.OnRebuild(m.reset)

	return m
}

// reset drops the selection set after a rebuild; the records are new.
func (m *Machine) reset() {
	clear(m.chosen)
}

// Subscribe registers an observer.
func (m *Machine) Subscribe(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// CursorMode returns the current cursor mode.
func (m *Machine) CursorMode() CursorMode { return m.cursor }

// ClickMode returns the current click mode.
func (m *Machine) ClickMode() ClickMode { return m.click }

// SetCursorMode switches the cursor mode. Hover flags are cleared so no
// wedge keeps a highlight that the new mode would not have produced.
func (m *Machine) SetCursorMode(c CursorMode) error {
	if !c.Valid() {
		return fmt.Errorf("SetCursorMode(%d): %w", c, ErrBadMode)
	}
	if c != m.cursor {
		m.cursor = c
		for w := range m.index.All() {
			w.SetHover(false)
		}
	}

	return nil
}

// SetClickMode switches the click mode.
func (m *Machine) SetClickMode(c ClickMode) error {
	if !c.Valid() {
		return fmt.Errorf("SetClickMode(%d): %w", c, ErrBadMode)
	}
	m.click = c

	return nil
}

// targets resolves the wedges addressed by an input at (level, angle).
// The addressed wedge itself is validated first so a bad angle fails even
// in level mode.
func (m *Machine) targets(level, angle int) ([]*tile.WedgeRecord, error) {
	w, err := m.index.Lookup(level, angle)
	if err != nil {
		return nil, err
	}
	if m.cursor == CursorCell {
		return []*tile.WedgeRecord{w}, nil
	}
	keys, err := m.index.WedgesAtLevel(level)
	if err != nil {
		return nil, err
	}
	out := make([]*tile.WedgeRecord, 0, len(keys))
	for _, k := range keys {
		r, err := m.index.Lookup(k.Level, k.Angle)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	return out, nil
}

// Deliver processes one input to completion, then notifies observers of
// the events it produced. Inputs on unavailable wedges are ignored.
//
// Errors: ErrNotReady before the index is initialized; tile.ErrOutOfRange
// for a (level, angle) outside the index.
func (m *Machine) Deliver(in Input) error {
	if m.index.State() != tile.Ready {
		return fmt.Errorf("Deliver %s%s: %w", in.Kind, curvelet.Key{Level: in.Level, Angle: in.Angle}, ErrNotReady)
	}
	targets, err := m.targets(in.Level, in.Angle)
	if err != nil {
		return fmt.Errorf("Deliver %s: %w", in.Kind, err)
	}
	// All wedges of a level share availability.
	if !targets[0].Available() {
		return nil
	}

	start := len(m.queue)
	switch in.Kind {
	case Enter:
		for _, w := range targets {
			w.SetHover(true)
		}
		m.emit(Event{Kind: Entered, Level: in.Level, Angle: in.Angle})
	case Leave:
		for _, w := range targets {
			w.SetHover(false)
		}
	case Press:
		m.press(targets)
	default:
		return fmt.Errorf("Deliver kind %d: %w", in.Kind, ErrBadMode)
	}
	m.notify(start)

	return nil
}

func (m *Machine) press(targets []*tile.WedgeRecord) {
	if m.click == ClickShow {
		for _, w := range targets {
			k := w.Key()
			m.emit(Event{Kind: ShowRequested, Level: k.Level, Angle: k.Angle, Interactive: true})
		}
		return
	}

	for _, w := range targets {
		if w.ToggleChosen() {
			m.chosen[w.Key()] = struct{}{}
		} else {
			delete(m.chosen, w.Key())
		}
	}
	m.emit(Event{Kind: SelectionChanged, NonEmpty: len(m.chosen) > 0})
}

func (m *Machine) emit(e Event) {
	m.queue = append(m.queue, e)
}

// notify hands the events queued since start to every observer, in order.
func (m *Machine) notify(start int) {
	for _, e := range m.queue[start:] {
		for _, o := range m.observers {
			o.Notify(e)
		}
	}
}

// Drain returns the queued events in emission order and clears the queue.
func (m *Machine) Drain() []Event {
	out := m.queue
	m.queue = nil

	return out
}

// Pending returns the number of undrained events.
func (m *Machine) Pending() int { return len(m.queue) }

// ShowSelected emits a non-interactive ShowRequested for every chosen
// wedge in (level, angle) order.
func (m *Machine) ShowSelected() error {
	if m.index.State() != tile.Ready {
		return fmt.Errorf("ShowSelected: %w", ErrNotReady)
	}
	start := len(m.queue)
	for _, k := range m.Selection() {
		m.emit(Event{Kind: ShowRequested, Level: k.Level, Angle: k.Angle})
	}
	m.notify(start)

	return nil
}

// Selection returns the chosen keys sorted by (level, angle).
func (m *Machine) Selection() []curvelet.Key {
	keys := lo.Keys(m.chosen)
	slices.SortFunc(keys, curvelet.CompareKeys)

	return keys
}

// IsChosen reports set membership in O(1).
func (m *Machine) IsChosen(k curvelet.Key) bool {
	_, ok := m.chosen[k]

	return ok
}

// Len returns the size of the selection set.
func (m *Machine) Len() int { return len(m.chosen) }

// Select forces the given keys into the selection, skipping unavailable
// wedges. Used to restore a saved session. One SelectionChanged is emitted
// when anything changed.
func (m *Machine) Select(keys []curvelet.Key) error {
	if m.index.State() != tile.Ready {
		return fmt.Errorf("Select: %w", ErrNotReady)
	}
	records := make([]*tile.WedgeRecord, 0, len(keys))
	for _, k := range keys {
		w, err := m.index.Lookup(k.Level, k.Angle)
		if err != nil {
			return fmt.Errorf("Select: %w", err)
		}
		records = append(records, w)
	}

	start := len(m.queue)
	var changed bool
	for _, w := range records {
		if w.SetChosen(true) {
			m.chosen[w.Key()] = struct{}{}
			changed = true
		}
	}
	if changed {
		m.emit(Event{Kind: SelectionChanged, NonEmpty: len(m.chosen) > 0})
	}
	m.notify(start)

	return nil
}

// ClearSelection unchooses every wedge.
func (m *Machine) ClearSelection() {
	if len(m.chosen) == 0 {
		return
	}
	start := len(m.queue)
	for k := range m.chosen {
		if w, err := m.index.Lookup(k.Level, k.Angle); err == nil {
			w.SetChosen(false)
		}
	}
	clear(m.chosen)
	m.emit(Event{Kind: SelectionChanged})
	m.notify(start)
}

// MarkEdited sets the edited flag on the given keys. An empty list marks
// every available wedge above level 0, matching a threshold pass over
// everything.
func (m *Machine) MarkEdited(keys []curvelet.Key) error {
	if m.index.State() != tile.Ready {
		return fmt.Errorf("MarkEdited: %w", ErrNotReady)
	}
	if len(keys) == 0 {
		for w := range m.index.All() {
			if w.Key().Level > 0 {
				w.SetEdited(true)
			}
		}
		return nil
	}
	for _, k := range keys {
		w, err := m.index.Lookup(k.Level, k.Angle)
		if err != nil {
			return fmt.Errorf("MarkEdited: %w", err)
		}
		if k.Level > 0 {
			w.SetEdited(true)
		}
	}

	return nil
}

// ClearEdited drops every edited flag.
func (m *Machine) ClearEdited() {
	for w := range m.index.All() {
		w.SetEdited(false)
	}
}

// Edited returns the keys of edited wedges in (level, angle) order.
func (m *Machine) Edited() []curvelet.Key {
	var keys []curvelet.Key
	for w := range m.index.All() {
		if w.Edited() {
			keys = append(keys, w.Key())
		}
	}

	return keys
}
