// SPDX-License-Identifier: MIT

package threshold_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/matrix"
	"github.com/katalvlaran/digitile/threshold"
)

// values flattens a structure into nested slices for cmp.Diff.
func values(s *curvelet.Structure) [][][]float64 {
	out := make([][][]float64, s.Levels())
	for k, b := range s.All() {
		out[k.Level] = append(out[k.Level], b.Values())
	}

	return out
}

func dense(t *testing.T, rows ...[]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return d
}

// small builds a three-level structure: 1, 2 and 2 wedges.
func small(t *testing.T) (*curvelet.Structure, *curvelet.Energy) {
	t.Helper()
	s, err := curvelet.NewStructure([][]*matrix.Dense{
		{dense(t, []float64{0.1, -0.2}, []float64{0, 5})},
		{dense(t, []float64{1, -3, 0}), dense(t, []float64{2}, []float64{-0.5})},
		{dense(t, []float64{4, 0}, []float64{-1, 0.25}), dense(t, []float64{-6})},
	})
	require.NoError(t, err)
	e, err := curvelet.NewEnergy([][]float64{{1}, {1, 2}, {0.5, 3}})
	require.NoError(t, err)

	return s, e
}

func TestApply_Basic(t *testing.T) {
	s, e := small(t)
	out, rep, err := threshold.Engine{}.Run(s, e, 1.5, nil)
	require.NoError(t, err)

	want := [][][]float64{
		{{0.1, -0.2, 0, 5}},   // level 0 untouched
		{{0, -3, 0}, {0, 0}},  // cutoffs 1.5 and 3
		{{4, 0, -1, 0}, {-6}}, // cutoffs 0.75 and 4.5
	}
	if d := cmp.Diff(want, values(out)); d != "" {
		t.Fatalf("Run mismatch (-want +got):\n%s", d)
	}
	assert.Equal(t, 4, rep.Kept)
	assert.Equal(t, 10, rep.Total)
	assert.Len(t, rep.Wedges, 4)
	assert.InDelta(t, (9.0+16+1+36)/(1+9+4+0.25+16+1+0.0625+36), rep.Retained, 1e-12)
}

func TestApply_DoesNotMutateOriginal(t *testing.T) {
	s, e := small(t)
	before := s.Clone()
	_, err := threshold.Engine{}.Apply(s, e, 100, nil)
	require.NoError(t, err)
	assert.True(t, before.Equal(s))
}

func TestApply_FreshOutput(t *testing.T) {
	s, e := small(t)
	sel := []curvelet.Key{{Level: 1, Angle: 0}}
	out, err := threshold.Engine{}.Apply(s, e, 0, sel)
	require.NoError(t, err)
	orig := make(map[curvelet.Key]*matrix.Dense)
	for k, b := range s.All() {
		orig[k] = b
	}
	for k, b := range out.All() {
		require.NotSame(t, orig[k], b, "block %s aliases the original", k)
	}
}

// Factor 0 keeps every nonzero entry and zeroes exactly the zeros.
func TestApply_ZeroFactorIsIdentity(t *testing.T) {
	s, _, err := curvelet.Fixture(curvelet.NewShape(4, 8), curvelet.WithFixtureSeed(7))
	require.NoError(t, err)
	e, err := curvelet.UniformEnergy(s.Shape(), 1)
	require.NoError(t, err)

	out, rep, err := threshold.Engine{}.Run(s, e, 0, nil)
	require.NoError(t, err)
	assert.True(t, out.Equal(s))
	assert.Equal(t, rep.Total-countZeros(s, true), rep.Kept)
}

// countZeros counts zero entries above level 0.
func countZeros(s *curvelet.Structure, skipLevel0 bool) int {
	var n int
	for k, b := range s.All() {
		if skipLevel0 && k.Level == 0 {
			continue
		}
		n += b.Len() - matrix.CountNonZero(b)
	}

	return n
}

func TestApply_ZeroFactorStrictComparison(t *testing.T) {
	s, e := small(t)
	out, rep, err := threshold.Engine{}.Run(s, e, 0, nil)
	require.NoError(t, err)
	if d := cmp.Diff(values(s), values(out)); d != "" {
		t.Fatalf("factor 0 changed data (-want +got):\n%s", d)
	}
	// Two zeros above level 0 fail the strict comparison.
	assert.Equal(t, rep.Total-2, rep.Kept)
}

func TestApply_Idempotent(t *testing.T) {
	s, e, err := curvelet.Fixture(curvelet.NewShape(5, 16), curvelet.WithFixtureSeed(3))
	require.NoError(t, err)
	sel := []curvelet.Key{{Level: 2, Angle: 1}, {Level: 4, Angle: 30}}
	var eng threshold.Engine

	a, err := eng.Apply(s, e, 0.8, sel)
	require.NoError(t, err)
	_, err = eng.Apply(s, e, 2.5, nil)
	require.NoError(t, err)
	b, err := eng.Apply(s, e, 0.8, sel)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "same inputs give bit-identical output")
}

func TestApply_SelectionOnly(t *testing.T) {
	s, e := small(t)
	sel := []curvelet.Key{{Level: 2, Angle: 1}, {Level: 0, Angle: 0}}
	out, rep, err := threshold.Engine{}.Run(s, e, 10, sel)
	require.NoError(t, err)

	want := values(s)
	want[2][1] = []float64{0}
	if d := cmp.Diff(want, values(out)); d != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", d)
	}
	assert.Equal(t, []curvelet.Key{{Level: 2, Angle: 1}}, rep.Processed(), "level 0 is never processed")
}

func TestApply_LargeFactorZeroesBands(t *testing.T) {
	s, e := small(t)
	for _, f := range []float64{1e6, math.MaxFloat64, math.Inf(1)} {
		out, rep, err := threshold.Engine{}.Run(s, e, f, nil)
		require.NoError(t, err, "factor %v", f)
		assert.Zero(t, rep.Kept)
		for k, b := range out.All() {
			if k.Level > 0 {
				assert.Zero(t, matrix.CountNonZero(b), "%s", k)
			}
		}
		lvl0, err := out.Block(curvelet.Key{})
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, -0.2, 0, 5}, lvl0.Values())
	}
}

func TestApply_Errors(t *testing.T) {
	s, e := small(t)
	var eng threshold.Engine

	_, err := eng.Apply(nil, e, 1, nil)
	require.ErrorIs(t, err, threshold.ErrNilInput)
	_, err = eng.Apply(s, nil, 1, nil)
	require.ErrorIs(t, err, threshold.ErrNilInput)

	_, err = eng.Apply(s, e, -0.1, nil)
	require.ErrorIs(t, err, threshold.ErrBadFactor)
	_, err = eng.Apply(s, e, math.NaN(), nil)
	require.ErrorIs(t, err, threshold.ErrBadFactor)

	other, err := curvelet.NewEnergy([][]float64{{1}, {1, 2}, {1}})
	require.NoError(t, err)
	out, err := eng.Apply(s, other, 1, nil)
	require.ErrorIs(t, err, threshold.ErrShape)
	require.ErrorIs(t, err, curvelet.ErrShape)
	assert.Nil(t, out, "no partial output")

	_, err = eng.Apply(s, e, 1, []curvelet.Key{{Level: 1, Angle: 2}})
	require.ErrorIs(t, err, curvelet.ErrOutOfRange)
}
