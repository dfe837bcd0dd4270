// SPDX-License-Identifier: MIT

// Package config loads runtime settings from DIGITILE_* environment
// variables, optionally overlaid by a JSON file.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/tile"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "DIGITILE_"

// ErrInvalid indicates settings that fail validation.
var ErrInvalid = errors.New("config: invalid settings")

// TileSettings is the layout and mode a session starts with.
type TileSettings struct {
	Scales       int    `env:"NBS, default=5" json:"nbs"`
	Angles       int    `env:"NBA, default=8" json:"nba"`
	AllCurvelets bool   `env:"AC, default=true" json:"ac"`
	Cursor       string `env:"CURSOR, default=cell" json:"cursor"`
	Click        string `env:"CLICK, default=show" json:"click"`
}

// Config returns the tile.Config part.
func (t TileSettings) Config() tile.Config {
	return tile.Config{Scales: t.Scales, Angles: t.Angles, AllCurvelets: t.AllCurvelets}
}

// Settings is the full runtime configuration.
type Settings struct {
	HTTPAddr string `env:"HTTP_ADDR, default=:8090" json:"http_addr"`
	// DataDir is the badger directory; empty keeps snapshots in memory.
	DataDir  string `env:"DATA_DIR" json:"data_dir"`
	LogFile  string `env:"LOG_FILE" json:"log_file"`
	LogLevel string `env:"LOG_LEVEL, default=info" json:"log_level"`
	Exporter string `env:"OTEL_EXPORTER, default=none" json:"otel_exporter"`

	Tile TileSettings `env:", prefix=TILE_" json:"tile"`

	SliderScale  float64 `env:"SLIDER_SCALE, default=0.02" json:"slider_scale"`
	FixtureBlock int     `env:"FIXTURE_BLOCK, default=4" json:"fixture_block"`
	FixtureSeed  int64   `env:"FIXTURE_SEED, default=1" json:"fixture_seed"`
}

// Load reads the process environment, then overlays file when non-empty,
// then validates.
func Load(ctx context.Context, file string) (*Settings, error) {
	return LoadWith(ctx, envconfig.OsLookuper(), file)
}

// LoadWith is Load with an explicit lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper, file string) (*Settings, error) {
	var s Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	if file != "" {
		if err := s.overlayFile(file); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// overlayFile decodes a JSON file over s; absent keys keep their value.
func (s *Settings) overlayFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		slog.Error("could not stat config file", slog.String("file", filename))
		return fmt.Errorf("config file: %w", err)
	}
	if info.Size() == 0 {
		slog.Error("config file is empty", slog.String("file", filename))
		return fmt.Errorf("config file %s is empty: %w", filename, ErrInvalid)
	}

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		slog.Error("could not decode config file", slog.String("file", filename), slog.Any("error", err))
		return fmt.Errorf("config file %s: %w", filename, err)
	}

	return nil
}

// Validate checks every field that has a closed set of values.
func (s *Settings) Validate() error {
	if err := s.Tile.Config().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := selection.ParseCursorMode(s.Tile.Cursor); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := selection.ParseClickMode(s.Tile.Click); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch s.Exporter {
	case obvy.ExporterNone, obvy.ExporterOTLP, obvy.ExporterHoneycomb:
	default:
		return fmt.Errorf("%w: otel exporter %q", ErrInvalid, s.Exporter)
	}
	if !(s.SliderScale > 0) {
		return fmt.Errorf("%w: slider scale %v", ErrInvalid, s.SliderScale)
	}
	if s.FixtureBlock <= 0 {
		return fmt.Errorf("%w: fixture block %d", ErrInvalid, s.FixtureBlock)
	}

	return nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}

	return l, nil
}
