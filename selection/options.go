// SPDX-License-Identifier: MIT

package selection

// Option configures a Machine at construction. Invalid values panic.
type Option func(*Machine)

// WithCursorMode sets the initial cursor mode. Default CursorCell.
func WithCursorMode(c CursorMode) Option {
	if c != CursorCell && c != CursorLevel {
		panic("selection: WithCursorMode: unknown mode")
	}

	return func(m *Machine) { m.cursor = c }
}

// WithClickMode sets the initial click mode. Default ClickShow.
func WithClickMode(c ClickMode) Option {
	if c != ClickShow && c != ClickSelect {
		panic("selection: WithClickMode: unknown mode")
	}

	return func(m *Machine) { m.click = c }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	if o == nil {
		panic("selection: WithObserver: nil observer")
	}

	return func(m *Machine) { m.observers = append(m.observers, o) }
}
