// SPDX-License-Identifier: MIT

package threshold

import "math"

// Slider bounds for the 0..255 factor control.
const (
	SliderMin = 0
	SliderMax = 255
)

// DefaultSliderScale maps the full slider range onto factor 0..5.1.
const DefaultSliderScale = 0.02

// FactorFromSlider converts a slider position into a factor, clamping the
// position into [SliderMin, SliderMax].
func FactorFromSlider(pos int, scale float64) float64 {
	pos = min(max(pos, SliderMin), SliderMax)

	return float64(pos) * scale
}

// SliderFromFactor is the inverse of FactorFromSlider, rounded to the
// nearest position and clamped.
func SliderFromFactor(factor, scale float64) int {
	if !(scale > 0) || math.IsNaN(factor) {
		return SliderMin
	}
	pos := int(math.Round(factor / scale))

	return min(max(pos, SliderMin), SliderMax)
}

// GainToDB converts an amplitude gain to decibels: 20·log10(g).
// A zero gain yields -Inf.
func GainToDB(g float64) float64 {
	return 20 * math.Log10(g)
}
