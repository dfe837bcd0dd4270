// SPDX-License-Identifier: MIT

package curvelet

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/digitile/matrix"
)

// Provider is the external curvelet transform collaborator. Implementations
// wrap a real fast discrete curvelet transform; none ships with this module.
type Provider interface {
	// Forward decomposes img into a structure of the given shape.
	Forward(img *matrix.Dense, shape Shape) (*Structure, error)
	// Inverse reconstructs an image from a (possibly thresholded) structure.
	Inverse(s *Structure) (*matrix.Dense, error)
	// NormalizedEnergy returns the per-wedge energy reference for shape.
	NormalizedEnergy(shape Shape) (*Energy, error)
}

// Default fixture parameters.
const (
	DefaultFixtureBlock = 4
	DefaultFixtureSigma = 20.0
	maxFixtureBlock     = 64
)

type fixtureConfig struct {
	block int
	sigma float64
	rng   *rand.Rand
}

// FixtureOption customises Fixture.
type FixtureOption func(*fixtureConfig)

// WithFixtureSeed makes the generated coefficients reproducible.
func WithFixtureSeed(seed int64) FixtureOption {
	return func(c *fixtureConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithFixtureBlock sets the side of level-0 blocks; higher levels grow by
// 2^(i div 2) up to 64. Panics if side <= 0.
func WithFixtureBlock(side int) FixtureOption {
	if side <= 0 {
		panic("curvelet: WithFixtureBlock(side<=0)")
	}
	return func(c *fixtureConfig) {
		c.block = side
	}
}

// WithFixtureSigma sets the standard deviation of the generated
// coefficients and the value of every energy entry. Panics if sigma <= 0.
func WithFixtureSigma(sigma float64) FixtureOption {
	if sigma <= 0 {
		panic("curvelet: WithFixtureSigma(sigma<=0)")
	}
	return func(c *fixtureConfig) {
		c.sigma = sigma
	}
}

// Fixture generates a normally distributed structure of the given shape
// together with a uniform energy reference equal to sigma, so a threshold
// factor f removes coefficients with |x| <= f·sigma.
func Fixture(shape Shape, opts ...FixtureOption) (*Structure, *Energy, error) {
	cfg := fixtureConfig{block: DefaultFixtureBlock, sigma: DefaultFixtureSigma}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(1))
	}
	if len(shape) == 0 {
		return nil, nil, fmt.Errorf("Fixture: %w", ErrBadShape)
	}

	levels := make([][]*matrix.Dense, len(shape))
	for i, m := range shape {
		if m <= 0 {
			return nil, nil, fmt.Errorf("Fixture: level %d: %w", i, ErrBadShape)
		}
		side := min(cfg.block<<(i/2), maxFixtureBlock)
		levels[i] = make([]*matrix.Dense, m)
		for j := range levels[i] {
			data := make([]float64, side*side)
			for k := range data {
				data[k] = cfg.rng.NormFloat64() * cfg.sigma
			}
			b, err := matrix.NewDenseFrom(side, side, data)
			if err != nil {
				return nil, nil, fmt.Errorf("Fixture: %w", err)
			}
			levels[i][j] = b
		}
	}
	s, err := Adopt(levels)
	if err != nil {
		return nil, nil, err
	}
	e, err := UniformEnergy(shape, cfg.sigma)
	if err != nil {
		return nil, nil, err
	}

	return s, e, nil
}
