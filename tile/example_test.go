// SPDX-License-Identifier: MIT

package tile_test

import (
	"fmt"

	"github.com/katalvlaran/digitile/tile"
)

func ExampleBuildWedge() {
	p, _ := tile.BuildWedge(1, 1, 25, 8)
	fmt.Println(p)
	// Output: [{25 25} {50 50} {0 50} {0 25}]
}

func ExampleIndex_Lookup() {
	x := tile.NewIndex()
	_ = x.Initialize(tile.Config{Scales: 3, Angles: 8, AllCurvelets: false})
	w, _ := x.Lookup(2, 0)
	fmt.Println(x.Len(), w.Key(), w.Status())
	// Output: 25 (2,0) unavailable
}
