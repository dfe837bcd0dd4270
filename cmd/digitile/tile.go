// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/digitile/config"
	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/tile"
)

type wedgeJSON struct {
	Key       curvelet.Key `json:"key"`
	Polygon   tile.Polygon `json:"polygon"`
	Available bool         `json:"available"`
}

type tileJSON struct {
	Config tile.Config `json:"config"`
	Extent tile.Extent `json:"extent"`
	Wedges []wedgeJSON `json:"wedges"`
}

func newTileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tile",
		Short: "Print the wedge polygons of a tile layout as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := a.start(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := buildTile(s)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(out)
		},
	}
}

func buildTile(s *config.Settings) (tileJSON, error) {
	x := tile.NewIndex()
	if err := x.Initialize(s.Tile.Config()); err != nil {
		return tileJSON{}, err
	}
	out := tileJSON{
		Config: x.Config(),
		Extent: x.Extent(),
		Wedges: make([]wedgeJSON, 0, x.Len()),
	}
	for w := range x.All() {
		out.Wedges = append(out.Wedges, wedgeJSON{Key: w.Key(), Polygon: w.Polygon(), Available: w.Available()})
	}

	return out, nil
}
