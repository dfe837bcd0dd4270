// SPDX-License-Identifier: MIT

package curvelet

import (
	"fmt"
	"iter"
	"math"

	"github.com/katalvlaran/digitile/matrix"
)

// Structure is a CoefficientStructure: levels[i][j] is the block of wedge
// (i,j). A Structure is immutable once built; every constructor copies or
// takes ownership, and readers get shared blocks they must not modify.
type Structure struct {
	levels [][]*matrix.Dense
}

// NewStructure deep-copies levels into a new Structure.
// Returns ErrBadShape when there are no levels, a level is empty or a block is nil.
// Complexity: O(total coefficients).
func NewStructure(levels [][]*matrix.Dense) (*Structure, error) {
	if err := validateLevels(levels); err != nil {
		return nil, err
	}
	out := make([][]*matrix.Dense, len(levels))
	for i, lvl := range levels {
		out[i] = make([]*matrix.Dense, len(lvl))
		for j, b := range lvl {
			out[i][j] = b.Clone()
		}
	}

	return &Structure{levels: out}, nil
}

// Adopt wraps levels without copying. The caller hands over ownership and
// must not touch the blocks afterwards; producers of fresh structures (the
// threshold engine, Fixture) use it to avoid a second copy.
func Adopt(levels [][]*matrix.Dense) (*Structure, error) {
	if err := validateLevels(levels); err != nil {
		return nil, err
	}

	return &Structure{levels: levels}, nil
}

func validateLevels(levels [][]*matrix.Dense) error {
	if len(levels) == 0 {
		return fmt.Errorf("structure has no levels: %w", ErrBadShape)
	}
	for i, lvl := range levels {
		if len(lvl) == 0 {
			return fmt.Errorf("level %d is empty: %w", i, ErrBadShape)
		}
		for j, b := range lvl {
			if b == nil {
				return fmt.Errorf("block (%d,%d) is nil: %w", i, j, ErrBadShape)
			}
		}
	}

	return nil
}

// Levels returns nbs, the number of scale levels.
func (s *Structure) Levels() int { return len(s.levels) }

// Count returns the number of wedges at level i, or 0 outside the structure.
func (s *Structure) Count(level int) int {
	if level < 0 || level >= len(s.levels) {
		return 0
	}

	return len(s.levels[level])
}

// Shape returns the wedge count per level.
func (s *Structure) Shape() Shape {
	sh := make(Shape, len(s.levels))
	for i, lvl := range s.levels {
		sh[i] = len(lvl)
	}

	return sh
}

// Block returns a copy of the block of wedge k. Changing it leaves s intact.
func (s *Structure) Block(k Key) (*matrix.Dense, error) {
	if k.Level < 0 || k.Level >= len(s.levels) || k.Angle < 0 || k.Angle >= len(s.levels[k.Level]) {
		return nil, fmt.Errorf("Block%s: %w", k, ErrOutOfRange)
	}

	return s.levels[k.Level][k.Angle].Clone(), nil
}

// All yields every (key, block) pair in level-then-angle order. The blocks
// are shared with s and must not be modified.
func (s *Structure) All() iter.Seq2[Key, *matrix.Dense] {
	return func(yield func(Key, *matrix.Dense) bool) {
		for i, lvl := range s.levels {
			for j, b := range lvl {
				if !yield(Key{Level: i, Angle: j}, b) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy sharing no blocks with s.
func (s *Structure) Clone() *Structure {
	c, _ := NewStructure(s.levels) // s is valid by construction

	return c
}

// Equal reports whether s and o have the same shape and bit-identical blocks.
func (s *Structure) Equal(o *Structure) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !s.Shape().Equal(o.Shape()) {
		return false
	}
	for k, b := range s.All() {
		if !b.Equal(o.levels[k.Level][k.Angle]) {
			return false
		}
	}

	return true
}

// Energy is an EnergyReference: one non-negative finite scalar per wedge.
type Energy struct {
	levels [][]float64
}

// NewEnergy copies levels into a new Energy.
// Returns ErrBadShape for empty levels or negative/non-finite values.
func NewEnergy(levels [][]float64) (*Energy, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("energy has no levels: %w", ErrBadShape)
	}
	out := make([][]float64, len(levels))
	for i, lvl := range levels {
		if len(lvl) == 0 {
			return nil, fmt.Errorf("energy level %d is empty: %w", i, ErrBadShape)
		}
		for j, v := range lvl {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("energy (%d,%d)=%v: %w", i, j, v, ErrBadShape)
			}
		}
		out[i] = append([]float64(nil), lvl...)
	}

	return &Energy{levels: out}, nil
}

// UniformEnergy returns an Energy of the given shape with every entry set to v.
func UniformEnergy(shape Shape, v float64) (*Energy, error) {
	levels := make([][]float64, len(shape))
	for i, m := range shape {
		if m <= 0 {
			return nil, fmt.Errorf("shape level %d has %d wedges: %w", i, m, ErrBadShape)
		}
		levels[i] = make([]float64, m)
		for j := range levels[i] {
			levels[i][j] = v
		}
	}

	return NewEnergy(levels)
}

// Shape returns the wedge count per level.
func (e *Energy) Shape() Shape {
	sh := make(Shape, len(e.levels))
	for i, lvl := range e.levels {
		sh[i] = len(lvl)
	}

	return sh
}

// At returns the energy of wedge k.
func (e *Energy) At(k Key) (float64, error) {
	if k.Level < 0 || k.Level >= len(e.levels) || k.Angle < 0 || k.Angle >= len(e.levels[k.Level]) {
		return 0, fmt.Errorf("Energy.At%s: %w", k, ErrOutOfRange)
	}

	return e.levels[k.Level][k.Angle], nil
}
