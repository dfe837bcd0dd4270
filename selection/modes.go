// SPDX-License-Identifier: MIT

package selection

import "fmt"

// CursorMode chooses how many wedges one input addresses.
type CursorMode int

const (
	// CursorCell addresses the single wedge under the cursor.
	CursorCell CursorMode = iota
	// CursorLevel addresses every wedge of the level under the cursor.
	CursorLevel
)

func (c CursorMode) String() string {
	if c == CursorLevel {
		return "level"
	}

	return "cell"
}

// Valid reports whether c is one of the defined cursor modes.
func (c CursorMode) Valid() bool { return c == CursorCell || c == CursorLevel }

// ParseCursorMode accepts "cell" or "level".
func ParseCursorMode(s string) (CursorMode, error) {
	switch s {
	case "cell":
		return CursorCell, nil
	case "level":
		return CursorLevel, nil
	}

	return CursorCell, fmt.Errorf("cursor %q: %w", s, ErrBadMode)
}

// MarshalText encodes the mode by name.
func (c CursorMode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText decodes a mode name.
func (c *CursorMode) UnmarshalText(b []byte) error {
	v, err := ParseCursorMode(string(b))
	if err != nil {
		return err
	}
	*c = v

	return nil
}

// ClickMode chooses what Press does.
type ClickMode int

const (
	// ClickShow emits ShowRequested and leaves the selection alone.
	ClickShow ClickMode = iota
	// ClickSelect toggles selection membership.
	ClickSelect
)

func (c ClickMode) String() string {
	if c == ClickSelect {
		return "select"
	}

	return "show"
}

// Valid reports whether c is one of the defined click modes.
func (c ClickMode) Valid() bool { return c == ClickShow || c == ClickSelect }

// ParseClickMode accepts "show" or "select".
func ParseClickMode(s string) (ClickMode, error) {
	switch s {
	case "show":
		return ClickShow, nil
	case "select":
		return ClickSelect, nil
	}

	return ClickShow, fmt.Errorf("click %q: %w", s, ErrBadMode)
}

// MarshalText encodes the mode by name.
func (c ClickMode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText decodes a mode name.
func (c *ClickMode) UnmarshalText(b []byte) error {
	v, err := ParseClickMode(string(b))
	if err != nil {
		return err
	}
	*c = v

	return nil
}

// InputKind is the pointer gesture carried by an Input.
type InputKind int

const (
	Enter InputKind = iota
	Leave
	Press
)

var inputNames = [...]string{"enter", "leave", "press"}

func (k InputKind) String() string {
	if k < 0 || int(k) >= len(inputNames) {
		return "unknown"
	}

	return inputNames[k]
}

// ParseInputKind accepts "enter", "leave" or "press".
func ParseInputKind(s string) (InputKind, error) {
	for k, name := range inputNames {
		if name == s {
			return InputKind(k), nil
		}
	}

	return Enter, fmt.Errorf("input %q: %w", s, ErrBadMode)
}

// MarshalText encodes the kind by name.
func (k InputKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *InputKind) UnmarshalText(b []byte) error {
	v, err := ParseInputKind(string(b))
	if err != nil {
		return err
	}
	*k = v

	return nil
}

// Input is one pointer gesture addressed to wedge (Level, Angle).
type Input struct {
	Level int       `json:"level"`
	Angle int       `json:"angle"`
	Kind  InputKind `json:"kind"`
}
