// SPDX-License-Identifier: MIT

package curvelet

import (
	"fmt"
	"slices"
)

// Key identifies one angle wedge: Level is the scale index i, Angle the
// wedge index j within that level.
type Key struct {
	Level int `json:"level"`
	Angle int `json:"angle"`
}

// String formats the key the way the tile labels wedges: "(i,j)".
func (k Key) String() string {
	return fmt.Sprintf("(%d,%d)", k.Level, k.Angle)
}

// Less orders keys by level, then angle.
func (k Key) Less(o Key) bool {
	if k.Level != o.Level {
		return k.Level < o.Level
	}

	return k.Angle < o.Angle
}

// CompareKeys is a slices.SortFunc comparator matching Key.Less.
func CompareKeys(a, b Key) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// AngleCount returns m(i), the number of wedges at level i for base angle
// count nba: 1 for i == 0, nba·2^(i div 2) otherwise.
// Complexity: O(1).
func AngleCount(level, nba int) int {
	if level == 0 {
		return 1
	}

	return nba << (level / 2)
}

// Shape lists the wedge count of every level.
type Shape []int

// NewShape returns the canonical shape for nbs levels and base angle count nba.
func NewShape(nbs, nba int) Shape {
	s := make(Shape, nbs)
	for i := range s {
		s[i] = AngleCount(i, nba)
	}

	return s
}

// Levels returns the number of scale levels.
func (s Shape) Levels() int { return len(s) }

// Total returns the number of wedges over all levels.
func (s Shape) Total() int {
	n := 0
	for _, m := range s {
		n += m
	}

	return n
}

// Contains reports whether k addresses a wedge of this shape.
func (s Shape) Contains(k Key) bool {
	return k.Level >= 0 && k.Level < len(s) && k.Angle >= 0 && k.Angle < s[k.Level]
}

// Equal reports whether both shapes have identical level and wedge counts.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// check validates a shape against another, tagging mismatches with op.
func (s Shape) check(op string, o Shape) error {
	if len(s) != len(o) {
		return fmt.Errorf("%s: %d levels vs %d: %w", op, len(s), len(o), ErrShape)
	}
	for i := range s {
		if s[i] != o[i] {
			return fmt.Errorf("%s: level %d has %d wedges vs %d: %w", op, i, s[i], o[i], ErrShape)
		}
	}

	return nil
}

// CheckSameShape returns a wrapped ErrShape when a and b differ.
func CheckSameShape(a, b Shape) error {
	return a.check("CheckSameShape", b)
}
