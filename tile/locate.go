// SPDX-License-Identifier: MIT

package tile

import (
	"math"

	"github.com/katalvlaran/digitile/curvelet"
)

// Locate returns the wedge containing the tile-local point p. Points on a
// shared edge resolve to one of the adjacent wedges. Points outside the
// outermost corona, non-finite points, or any point before Initialize,
// report false.
//
// The level follows from the Chebyshev radius max(|x|,|y|); every wedge edge
// is a ray through the origin, so the angle follows from atan2. The
// candidate and its neighbours are confirmed with a polygon test.
func (x *Index) Locate(p Point) (curvelet.Key, bool) {
	if x.state != Ready || !finite(p.X) || !finite(p.Y) {
		return curvelet.Key{}, false
	}
	a := x.extent.Unit
	r := math.Max(math.Abs(p.X), math.Abs(p.Y))
	if r <= a {
		return curvelet.Key{}, true
	}

	level := int(math.Ceil(math.Log2(r / a)))
	if level < 1 {
		level = 1
	}
	// Guard the log against rounding on exact powers of two.
	for level > 1 && r <= math.Ldexp(a, level-1) {
		level--
	}
	for level < x.cfg.Scales && r > math.Ldexp(a, level) {
		level++
	}
	if level >= x.cfg.Scales {
		return curvelet.Key{}, false
	}

	m := x.offsets[level+1] - x.offsets[level]
	theta := math.Atan2(p.Y, p.X)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	j := int(theta * float64(m) / (2 * math.Pi))

	for _, d := range [...]int{-1, 0, 1} {
		c := ((j+d)%m + m) % m
		if x.records[x.index(level, c)].polygon.Contains(p.X, p.Y) {
			return curvelet.Key{Level: level, Angle: c}, true
		}
	}

	return curvelet.Key{}, false
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
