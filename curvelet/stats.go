// SPDX-License-Identifier: MIT

package curvelet

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/digitile/matrix"
)

// Stats summarises one block for display next to a show request.
type Stats struct {
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	NonZero int     `json:"nonzero"`
	Energy  float64 `json:"energy"` // sum of squares
}

// BlockStats computes Stats for b. A one-element block has StdDev 0.
func BlockStats(b *matrix.Dense) Stats {
	if b == nil {
		return Stats{}
	}
	v := b.Values()
	st := Stats{
		Rows:    b.Rows(),
		Cols:    b.Cols(),
		Min:     floats.Min(v),
		Max:     floats.Max(v),
		NonZero: matrix.CountNonZero(b),
		Energy:  floats.Dot(v, v),
	}
	if len(v) > 1 {
		st.Mean, st.StdDev = stat.MeanStdDev(v, nil)
	} else {
		st.Mean = v[0]
	}

	return st
}
