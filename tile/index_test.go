// SPDX-License-Identifier: MIT

package tile_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/tile"
)

func mustIndex(t *testing.T, cfg tile.Config) *tile.Index {
	t.Helper()
	x := tile.NewIndex()
	require.NoError(t, x.Initialize(cfg))

	return x
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, tile.DefaultConfig().Validate())
	for _, cfg := range []tile.Config{
		{Scales: 2, Angles: 8},
		{Scales: 20, Angles: 8},
		{Scales: 5, Angles: 12},
		{Scales: 5, Angles: 4},
	} {
		require.ErrorIs(t, cfg.Validate(), tile.ErrBadConfig, cfg.String())
	}
}

func TestIndex_NotReady(t *testing.T) {
	x := tile.NewIndex()
	assert.Equal(t, tile.Uninitialized, x.State())
	_, err := x.Lookup(0, 0)
	require.ErrorIs(t, err, tile.ErrNotReady)
	_, err = x.WedgesAtLevel(0)
	require.ErrorIs(t, err, tile.ErrNotReady)
	_, ok := x.Locate(tile.Point{})
	assert.False(t, ok)
	assert.Zero(t, x.Levels())
	assert.Nil(t, x.Shape())
}

// For every accepted configuration the index holds exactly one record per
// (i, j), with m(0) = 1 and m(i) = nba·2^(i div 2).
func TestIndex_WedgeCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("full configuration sweep")
	}
	for nbs := tile.MinScales; nbs <= tile.MaxScales; nbs++ {
		for _, nba := range tile.AllowedAngles() {
			x := mustIndex(t, tile.Config{Scales: nbs, Angles: nba, AllCurvelets: true})
			require.Equal(t, nbs, x.Levels())
			require.Equal(t, curvelet.NewShape(nbs, nba), x.Shape())
			require.Equal(t, curvelet.NewShape(nbs, nba).Total(), x.Len())

			seen := make(map[curvelet.Key]bool, x.Len())
			for w := range x.All() {
				require.False(t, seen[w.Key()], "duplicate %s", w.Key())
				seen[w.Key()] = true
			}
			for i := 0; i < nbs; i++ {
				keys, err := x.WedgesAtLevel(i)
				require.NoError(t, err)
				require.Len(t, keys, curvelet.AngleCount(i, nba))
			}
			require.Len(t, seen, x.Len())
		}
	}
}

func TestIndex_Lookup(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 4, Angles: 16, AllCurvelets: true})
	w, err := x.Lookup(2, 31)
	require.NoError(t, err)
	assert.Equal(t, curvelet.Key{Level: 2, Angle: 31}, w.Key())

	for _, k := range [][2]int{{2, 32}, {4, 0}, {-1, 0}, {0, 1}, {1, -1}} {
		_, err := x.Lookup(k[0], k[1])
		require.ErrorIs(t, err, tile.ErrOutOfRange, "%v", k)
	}
	_, err = x.WedgesAtLevel(4)
	require.ErrorIs(t, err, tile.ErrOutOfRange)
}

func TestIndex_Extent(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 5, Angles: 8, AllCurvelets: true})
	e := x.Extent()
	assert.Equal(t, 25.0, e.Unit)
	assert.Equal(t, 800.0, e.Span)
	assert.Equal(t, 1000.0, e.Size)
	assert.Equal(t, tile.Point{X: 500, Y: 500}, e.ToScene(tile.Point{}))
	assert.Equal(t, tile.Point{X: -10, Y: 3}, e.FromScene(e.ToScene(tile.Point{X: -10, Y: 3})))

	w, err := x.Lookup(1, 0)
	require.NoError(t, err)
	assert.Equal(t, tile.Polygon{{25, 0}, {50, 0}, {50, 50}, {25, 25}}, w.Polygon())
}

func TestIndex_Availability(t *testing.T) {
	for _, ac := range []bool{true, false} {
		x := mustIndex(t, tile.Config{Scales: 4, Angles: 8, AllCurvelets: ac})
		for w := range x.All() {
			want := ac || w.Key().Level != 3
			require.Equal(t, want, w.Available(), "ac=%t %s", ac, w.Key())
			if !want {
				require.Equal(t, tile.StatusUnavailable, w.Status())
			}
		}
		w, err := x.Lookup(0, 0)
		require.NoError(t, err)
		assert.True(t, w.Available(), "level 0 is always available")
	}
}

func TestWedgeRecord_UnavailableIsFrozen(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 3, Angles: 8, AllCurvelets: false})
	w, err := x.Lookup(2, 5)
	require.NoError(t, err)
	assert.False(t, w.SetHover(true))
	assert.False(t, w.ToggleChosen())
	assert.False(t, w.SetChosen(true))
	assert.False(t, w.SetEdited(true))
	assert.False(t, w.Hovered() || w.Chosen() || w.Edited())
	assert.Equal(t, tile.StatusUnavailable, w.Status())
}

func TestWedgeRecord_StatusPrecedence(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 3, Angles: 8, AllCurvelets: true})
	w, err := x.Lookup(1, 2)
	require.NoError(t, err)
	assert.Equal(t, tile.StatusNormal, w.Status())

	w.SetEdited(true)
	assert.Equal(t, tile.StatusEdited, w.Status())
	assert.True(t, w.ToggleChosen())
	assert.Equal(t, tile.StatusChosen, w.Status())
	w.SetHover(true)
	assert.Equal(t, tile.StatusHover, w.Status())
	w.SetHover(false)
	assert.Equal(t, tile.StatusChosen, w.Status())
	assert.False(t, w.ToggleChosen())
	assert.Equal(t, tile.StatusEdited, w.Status(), "edited survives a toggle")
	assert.Equal(t, "edited", w.Status().String())
}

func TestIndex_RebuildReplacesContents(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 3, Angles: 8, AllCurvelets: true})
	var rebuilds int
	x.OnRebuild(func() { rebuilds++ })

	w, err := x.Lookup(1, 1)
	require.NoError(t, err)
	w.ToggleChosen()

	require.NoError(t, x.Initialize(tile.Config{Scales: 4, Angles: 16, AllCurvelets: true}))
	assert.Equal(t, 1, rebuilds)
	for w := range x.All() {
		require.False(t, w.Chosen())
	}

	before := x.Config()
	require.ErrorIs(t, x.Initialize(tile.Config{Scales: 1, Angles: 8}), tile.ErrBadConfig)
	assert.Equal(t, before, x.Config(), "failed rebuild keeps contents")
	assert.Equal(t, 1, rebuilds)
	assert.Equal(t, tile.Ready, x.State())
}

func TestIndex_Locate(t *testing.T) {
	x := mustIndex(t, tile.Config{Scales: 5, Angles: 16, AllCurvelets: true})

	k, ok := x.Locate(tile.Point{})
	require.True(t, ok)
	assert.Equal(t, curvelet.Key{}, k)

	k, ok = x.Locate(tile.Point{X: 30, Y: 5})
	require.True(t, ok)
	assert.Equal(t, curvelet.Key{Level: 1, Angle: 0}, k)

	_, ok = x.Locate(tile.Point{X: 401, Y: 0})
	assert.False(t, ok)

	// The vertex mean of a convex quad is interior: it must map back.
	for w := range x.All() {
		var c tile.Point
		for _, v := range w.Polygon() {
			c.X += v.X / 4
			c.Y += v.Y / 4
		}
		got, ok := x.Locate(c)
		require.True(t, ok, "%s", w.Key())
		require.Equal(t, w.Key(), got)
	}
}

func TestIndex_LocateNonFinite(t *testing.T) {
	x := mustIndex(t, tile.DefaultConfig())

	for _, p := range []tile.Point{
		{X: math.NaN()},
		{Y: math.NaN()},
		{X: math.Inf(1), Y: 3},
		{X: 3, Y: math.Inf(-1)},
	} {
		_, ok := x.Locate(p)
		assert.False(t, ok, "%v", p)
	}
}

func TestIndex_Label(t *testing.T) {
	x := mustIndex(t, tile.DefaultConfig())
	assert.Equal(t, "Number of scales = 5\nNumber of angles = 8", x.Label())
}
