// SPDX-License-Identifier: MIT

package tile

import (
	"fmt"
	"slices"
)

// Accepted configuration ranges.
const (
	MinScales = 3
	MaxScales = 19
)

// allowedAngles lists the accepted second-level angle counts.
var allowedAngles = []int{8, 16, 32, 64}

// Config selects a tile layout.
type Config struct {
	// Scales is the number of scale levels (nbs).
	Scales int `json:"nbs"`
	// Angles is the number of wedges at level 1 (nba).
	Angles int `json:"nba"`
	// AllCurvelets keeps the finest level available as wedges (ac).
	// When false the finest level is drawn but cannot be interacted with.
	AllCurvelets bool `json:"ac"`
}

// DefaultConfig returns nbs=5, nba=8, ac=true.
func DefaultConfig() Config {
	return Config{Scales: 5, Angles: 8, AllCurvelets: true}
}

// AllowedAngles returns a copy of the accepted angle counts.
func AllowedAngles() []int { return slices.Clone(allowedAngles) }

// Validate returns ErrBadConfig for scales outside [MinScales,MaxScales] or
// an angle count not in {8,16,32,64}.
func (c Config) Validate() error {
	if c.Scales < MinScales || c.Scales > MaxScales {
		return fmt.Errorf("scales=%d not in [%d,%d]: %w", c.Scales, MinScales, MaxScales, ErrBadConfig)
	}
	if !slices.Contains(allowedAngles, c.Angles) {
		return fmt.Errorf("angles=%d not in %v: %w", c.Angles, allowedAngles, ErrBadConfig)
	}

	return nil
}

// SameTransform reports whether both configs describe the same decomposition.
func (c Config) SameTransform(o Config) bool { return c == o }

func (c Config) String() string {
	return fmt.Sprintf("nbs=%d nba=%d ac=%t", c.Scales, c.Angles, c.AllCurvelets)
}
