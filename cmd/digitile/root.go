// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/digitile/config"
	"github.com/katalvlaran/digitile/server"
)

// app carries flag values shared by every subcommand.
type app struct {
	configFile string
	logLevel   string
	logFile    string

	nbs    int
	nba    int
	ac     bool
	cursor string
	click  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "digitile",
		Short:         "Interactive curvelet digital tile",
		Version:       server.Version,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "JSON settings file overlaid on DIGITILE_* variables")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.logFile, "log-file", "", "rotated JSON log file")
	pf.IntVar(&a.nbs, "nbs", 0, "number of scales")
	pf.IntVar(&a.nba, "nba", 0, "number of angles at the coarsest level (8, 16, 32 or 64)")
	pf.BoolVar(&a.ac, "ac", true, "curvelets at the finest level")
	pf.StringVar(&a.cursor, "cursor", "", "cursor mode: cell or level")
	pf.StringVar(&a.click, "click", "", "click mode: show or select")

	root.AddCommand(newServeCmd(a), newViewCmd(a), newTileCmd(a))

	return root
}

// settings loads configuration and applies the flags that were set.
func (a *app) settings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(cmd.Context(), a.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.LogLevel = a.logLevel
	}
	if flags.Changed("log-file") {
		s.LogFile = a.logFile
	}
	if flags.Changed("nbs") {
		s.Tile.Scales = a.nbs
	}
	if flags.Changed("nba") {
		s.Tile.Angles = a.nba
	}
	if flags.Changed("ac") {
		s.Tile.AllCurvelets = a.ac
	}
	if flags.Changed("cursor") {
		s.Tile.Cursor = a.cursor
	}
	if flags.Changed("click") {
		s.Tile.Click = a.click
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// start loads settings and installs the logger with console output to w.
func (a *app) start(cmd *cobra.Command, w io.Writer) (*config.Settings, func(), error) {
	s, err := a.settings(cmd)
	if err != nil {
		return nil, nil, err
	}
	level, err := config.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	cleanup, err := setupLogger(w, level, s.LogFile)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Settings loaded", slog.String("tile", s.Tile.Config().String()), slog.String("addr", s.HTTPAddr))

	return s, cleanup, nil
}
