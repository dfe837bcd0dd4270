// SPDX-License-Identifier: MIT

package tile_test

import (
	"testing"

	"github.com/katalvlaran/digitile/tile"
)

func BenchmarkInitialize(b *testing.B) {
	cfg := tile.Config{Scales: 10, Angles: 32, AllCurvelets: true}
	x := tile.NewIndex()
	b.ReportAllocs()
	for b.Loop() {
		if err := x.Initialize(cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLocate(b *testing.B) {
	x := tile.NewIndex()
	if err := x.Initialize(tile.Config{Scales: 8, Angles: 16, AllCurvelets: true}); err != nil {
		b.Fatal(err)
	}
	p := tile.Point{X: 123.4, Y: -56.7}
	for b.Loop() {
		x.Locate(p)
	}
}
