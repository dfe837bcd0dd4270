// SPDX-License-Identifier: MIT

package tile

import (
	"fmt"
	"math"
)

// Point is a tile-local coordinate; the origin is the tile centre.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a wedge outline: always exactly four ordered vertices.
type Polygon [4]Point

// axisDirs holds (cos, sin) for θ = 0, π/2, π, 3π/2.
var axisDirs = [4]Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// diagDirs holds the sign pattern for θ = π/4, 3π/4, 5π/4, 7π/4.
var diagDirs = [4]Point{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

// sign returns -1, 0 or +1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// digitalPoint evaluates the digital radius mapping at Chebyshev radius r
// and angle θ = 2π·j/m:
//
//	px = min(r, |r/tanθ|)·sign(cosθ)
//	py = min(r, |r·tanθ|)·sign(sinθ)
//
// Multiples of π/4 are resolved from the rational j/m, so axis and corner
// vertices land exactly on the square boundary.
func digitalPoint(r float64, j, m int) Point {
	j = ((j % m) + m) % m
	if (4*j)%m == 0 {
		d := axisDirs[4*j/m]
		return Point{X: r * d.X, Y: r * d.Y}
	}
	if (8*j)%m == 0 {
		d := diagDirs[(8*j/m)/2]
		return Point{X: r * d.X, Y: r * d.Y}
	}
	theta := 2 * math.Pi * float64(j) / float64(m)
	c, s := math.Cos(theta), math.Sin(theta)

	// |r/tanθ| = |r·c/s| and |r·tanθ| = |r·s/c|; neither c nor s is 0 here.
	return Point{
		X: math.Min(r, math.Abs(r*c/s)) * sign(c),
		Y: math.Min(r, math.Abs(r*s/c)) * sign(s),
	}
}

// BuildWedge returns the polygon of wedge (level, angle) for base unit a and
// m wedges at that level.
//
// Level 0 is the square [-a,a]² (m must be 1). For level > 0 the vertices
// are P(Rin,θ1), P(Rout,θ1), P(Rout,θ2), P(Rin,θ2) with Rin = 2^(level-1)·a,
// Rout = 2^level·a, θ1 = 2π·angle/m, θ2 = 2π·(angle+1)/m.
//
// Errors: ErrBadConfig for level < 0, a <= 0 or m <= 0; ErrOutOfRange for
// angle outside [0,m).
// Complexity: O(1).
func BuildWedge(level, angle int, a float64, m int) (Polygon, error) {
	if level < 0 || m <= 0 || !(a > 0) || math.IsInf(a, 0) {
		return Polygon{}, tileErrorf("BuildWedge", level, angle, fmt.Errorf("a=%v m=%d: %w", a, m, ErrBadConfig))
	}
	if angle < 0 || angle >= m {
		return Polygon{}, tileErrorf("BuildWedge", level, angle, ErrOutOfRange)
	}
	if level == 0 {
		return Polygon{{-a, -a}, {a, -a}, {a, a}, {-a, a}}, nil
	}

	rIn := math.Ldexp(a, level-1)
	rOut := math.Ldexp(a, level)

	return Polygon{
		digitalPoint(rIn, angle, m),
		digitalPoint(rOut, angle, m),
		digitalPoint(rOut, angle+1, m),
		digitalPoint(rIn, angle+1, m),
	}, nil
}

// Area returns the absolute shoelace area of the polygon.
func (p Polygon) Area() float64 {
	var s float64
	for i := range p {
		q := p[(i+1)%len(p)]
		s += p[i].X*q.Y - q.X*p[i].Y
	}

	return math.Abs(s) / 2
}

// Contains reports whether (x, y) lies inside or on the convex polygon,
// using the same-side cross-product test.
func (p Polygon) Contains(x, y float64) bool {
	var positive, negative bool
	for i := range p {
		x1, y1 := p[i].X, p[i].Y
		q := p[(i+1)%len(p)]
		cross := (q.X-x1)*(y-y1) - (q.Y-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}

	return true
}
