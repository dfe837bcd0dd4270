// SPDX-License-Identifier: MIT

package tile

import (
	"fmt"
	"iter"
	"math"

	"github.com/katalvlaran/digitile/curvelet"
)

// Tile extent constants: the finest corona spans tileSpan units and the
// tile keeps tileMargin units around it for labels.
const (
	tileSpan   = 800
	tileMargin = 200
)

// State is the index lifecycle.
type State int

const (
	// Uninitialized: no configuration has been applied yet.
	Uninitialized State = iota
	// Ready: records exist for the current configuration.
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}

	return "uninitialized"
}

// Extent describes the tile drawing area.
type Extent struct {
	// Unit is the base unit a: level 0 spans [-a,a]².
	Unit float64 `json:"unit"`
	// Span is the side of the outermost corona, 2^nbs·a.
	Span float64 `json:"span"`
	// Size is the full tile side, Span plus the label margin.
	Size float64 `json:"size"`
}

// ToScene maps a tile-local point to scene coordinates with the origin at
// the top-left corner of the tile.
func (e Extent) ToScene(p Point) Point {
	return Point{X: p.X + e.Size/2, Y: p.Y + e.Size/2}
}

// FromScene is the inverse of ToScene.
func (e Extent) FromScene(p Point) Point {
	return Point{X: p.X - e.Size/2, Y: p.Y - e.Size/2}
}

// Index holds one WedgeRecord per (level, angle) of the current
// configuration in a flat arena.
//
// records[offsets[i]+j] is wedge (i, j); offsets has Scales+1 entries.
type Index struct {
	cfg     Config
	state   State
	extent  Extent
	records []WedgeRecord
	offsets []int

	onRebuild []func()
}

// NewIndex returns an uninitialized index.
func NewIndex() *Index { return &Index{} }

// OnRebuild registers fn to run after every successful Initialize.
// Hooks run in registration order.
func (x *Index) OnRebuild(fn func()) {
	if fn != nil {
		x.onRebuild = append(x.onRebuild, fn)
	}
}

// Initialize replaces the index contents with the layout for cfg.
// A wedge is unavailable iff !cfg.AllCurvelets and it sits on the finest
// level. On error the previous contents are kept.
//
// Complexity: O(W) for W wedges.
func (x *Index) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("Initialize: %w", err)
	}

	unit := tileSpan / math.Ldexp(1, cfg.Scales)
	offsets := make([]int, cfg.Scales+1)
	for i := 0; i < cfg.Scales; i++ {
		offsets[i+1] = offsets[i] + curvelet.AngleCount(i, cfg.Angles)
	}

	records := make([]WedgeRecord, offsets[cfg.Scales])
	for i := 0; i < cfg.Scales; i++ {
		m := offsets[i+1] - offsets[i]
		available := cfg.AllCurvelets || i != cfg.Scales-1
		for j := 0; j < m; j++ {
			poly, err := BuildWedge(i, j, unit, m)
			if err != nil {
				return fmt.Errorf("Initialize: %w", err)
			}
			records[offsets[i]+j] = WedgeRecord{
				key:       curvelet.Key{Level: i, Angle: j},
				polygon:   poly,
				available: available,
			}
		}
	}

	x.cfg = cfg
	x.offsets = offsets
	x.records = records
	span := math.Ldexp(unit, cfg.Scales)
	x.extent = Extent{Unit: unit, Span: span, Size: span + tileMargin}
	x.state = Ready

	for _, fn := range x.onRebuild {
		fn()
	}

	return nil
}

// State returns the lifecycle state.
func (x *Index) State() State { return x.state }

// Config returns the configuration of the last successful Initialize.
func (x *Index) Config() Config { return x.cfg }

// Extent returns the drawing area. Zero before Initialize.
func (x *Index) Extent() Extent { return x.extent }

// Levels returns the number of scale levels, 0 before Initialize.
func (x *Index) Levels() int {
	if x.state != Ready {
		return 0
	}

	return x.cfg.Scales
}

// Len returns the total number of wedges.
func (x *Index) Len() int { return len(x.records) }

// Shape returns the per-level wedge counts.
func (x *Index) Shape() curvelet.Shape {
	if x.state != Ready {
		return nil
	}
	s := make(curvelet.Shape, x.cfg.Scales)
	for i := range s {
		s[i] = x.offsets[i+1] - x.offsets[i]
	}

	return s
}

// InBounds reports whether (level, angle) addresses a record.
func (x *Index) InBounds(level, angle int) bool {
	if x.state != Ready || level < 0 || level >= x.cfg.Scales {
		return false
	}

	return angle >= 0 && angle < x.offsets[level+1]-x.offsets[level]
}

// index converts (level, angle) into an arena slot; callers check bounds.
func (x *Index) index(level, angle int) int { return x.offsets[level] + angle }

// Lookup returns the record for (level, angle).
// Errors: ErrNotReady before Initialize, ErrOutOfRange outside bounds.
func (x *Index) Lookup(level, angle int) (*WedgeRecord, error) {
	if x.state != Ready {
		return nil, tileErrorf("Lookup", level, angle, ErrNotReady)
	}
	if !x.InBounds(level, angle) {
		return nil, tileErrorf("Lookup", level, angle, ErrOutOfRange)
	}

	return &x.records[x.index(level, angle)], nil
}

// WedgesAtLevel returns the keys of every wedge at level in angle order.
func (x *Index) WedgesAtLevel(level int) ([]curvelet.Key, error) {
	if x.state != Ready {
		return nil, tileErrorf("WedgesAtLevel", level, 0, ErrNotReady)
	}
	if level < 0 || level >= x.cfg.Scales {
		return nil, tileErrorf("WedgesAtLevel", level, 0, ErrOutOfRange)
	}
	keys := make([]curvelet.Key, 0, x.offsets[level+1]-x.offsets[level])
	for j := range x.offsets[level+1] - x.offsets[level] {
		keys = append(keys, curvelet.Key{Level: level, Angle: j})
	}

	return keys, nil
}

// All yields every record in (level, angle) order.
func (x *Index) All() iter.Seq[*WedgeRecord] {
	return func(yield func(*WedgeRecord) bool) {
		for k := range x.records {
			if !yield(&x.records[k]) {
				return
			}
		}
	}
}

// Label returns the tile caption.
func (x *Index) Label() string {
	return fmt.Sprintf("Number of scales = %d\nNumber of angles = %d", x.cfg.Scales, x.cfg.Angles)
}
