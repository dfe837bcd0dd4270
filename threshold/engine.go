// SPDX-License-Identifier: MIT

package threshold

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/matrix"
)

// Engine applies energy-normalised hard thresholding. The zero value is
// ready to use and holds no state between calls.
type Engine struct{}

// WedgeReport describes the effect of one run on a processed wedge.
type WedgeReport struct {
	Key   curvelet.Key `json:"key"`
	Kept  int          `json:"kept"`
	Total int          `json:"total"`
	// Retained is Σout²/Σx², 1 for an all-zero block.
	Retained float64 `json:"retained"`
}

// Report summarises one run over all processed wedges.
type Report struct {
	Factor   float64       `json:"factor"`
	Kept     int           `json:"kept"`
	Total    int           `json:"total"`
	Retained float64       `json:"retained"`
	Wedges   []WedgeReport `json:"wedges"`
}

// Processed returns the keys of the wedges the run thresholded.
func (r Report) Processed() []curvelet.Key {
	keys := make([]curvelet.Key, len(r.Wedges))
	for k, w := range r.Wedges {
		keys[k] = w.Key
	}

	return keys
}

// Apply returns the thresholded structure. See Run.
func (e Engine) Apply(original *curvelet.Structure, energy *curvelet.Energy, factor float64, sel []curvelet.Key) (*curvelet.Structure, error) {
	out, _, err := e.Run(original, energy, factor, sel)

	return out, err
}

// Run thresholds original and reports what was kept.
//
// Errors:
//   - ErrNilInput: original or energy is nil.
//   - ErrBadFactor: factor < 0 or NaN.
//   - ErrShape: original and energy differ in shape.
//   - curvelet.ErrOutOfRange: a selected key is outside the structure.
//
// No output is produced on error.
func (Engine) Run(original *curvelet.Structure, energy *curvelet.Energy, factor float64, sel []curvelet.Key) (*curvelet.Structure, Report, error) {
	if original == nil || energy == nil {
		return nil, Report{}, ErrNilInput
	}
	if math.IsNaN(factor) || factor < 0 {
		return nil, Report{}, fmt.Errorf("factor=%v: %w", factor, ErrBadFactor)
	}
	shape := original.Shape()
	if err := curvelet.CheckSameShape(shape, energy.Shape()); err != nil {
		return nil, Report{}, fmt.Errorf("%w: %w", ErrShape, err)
	}

	selected := make(map[curvelet.Key]bool, len(sel))
	for _, k := range sel {
		if !shape.Contains(k) {
			return nil, Report{}, fmt.Errorf("selection %s: %w", k, curvelet.ErrOutOfRange)
		}
		selected[k] = true
	}
	all := len(selected) == 0

	levels := make([][]*matrix.Dense, len(shape))
	for i, m := range shape {
		levels[i] = make([]*matrix.Dense, m)
	}

	rep := Report{Factor: factor}
	var inEnergy, outEnergy float64
	for k, x := range original.All() {
		if k.Level == 0 || !(all || selected[k]) {
			levels[k.Level][k.Angle] = x.Clone()
			continue
		}
		e, err := energy.At(k)
		if err != nil {
			return nil, Report{}, err
		}
		out, kept, err := keepAbove(x, cutoff(factor, e))
		if err != nil {
			return nil, Report{}, fmt.Errorf("wedge %s: %w", k, err)
		}
		levels[k.Level][k.Angle] = out

		xv, ov := x.Values(), out.Values()
		xe, oe := floats.Dot(xv, xv), floats.Dot(ov, ov)
		w := WedgeReport{Key: k, Kept: kept, Total: x.Len(), Retained: ratio(oe, xe)}
		rep.Wedges = append(rep.Wedges, w)
		rep.Kept += w.Kept
		rep.Total += w.Total
		inEnergy += xe
		outEnergy += oe
	}
	rep.Retained = ratio(outEnergy, inEnergy)

	s, err := curvelet.Adopt(levels)
	if err != nil {
		return nil, Report{}, err
	}

	return s, rep, nil
}

// cutoff returns factor·e; a zero energy never thresholds anything away
// except exact zeros, even for an infinite factor.
func cutoff(factor, e float64) float64 {
	if e == 0 {
		return 0
	}

	return factor * e
}

// keepAbove wraps matrix.KeepAbove, mapping an infinite cutoff to an
// all-zero block.
func keepAbove(x *matrix.Dense, t float64) (*matrix.Dense, int, error) {
	if math.IsInf(t, 1) {
		z, err := matrix.NewDense(x.Rows(), x.Cols())
		return z, 0, err
	}

	return matrix.KeepAbove(x, t)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 1
	}

	return num / den
}
