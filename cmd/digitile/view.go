// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/digitile/display"
	"github.com/katalvlaran/digitile/server"
	"github.com/katalvlaran/digitile/session"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Draw the tile in the terminal",
		Long: "Draw the tile in the terminal. Mouse hovers and clicks wedges; " +
			"c toggles the cursor mode, f the click mode, s shows the selection, " +
			"+/- move the threshold, a applies it, q quits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal owns the console, so only the log file is written.
			s, cleanup, err := a.start(cmd, io.Discard)
			if err != nil {
				return err
			}
			defer cleanup()

			params, err := server.Settings(s)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sess := session.New(session.WithFixture(s.FixtureBlock, s.FixtureSeed))
			if err := sess.LoadFixture(ctx, params); err != nil {
				return err
			}

			screen, err := display.NewScreen()
			if err != nil {
				return err
			}
			defer screen.Fini()

			return display.NewView(screen, sess, s.SliderScale).Run(ctx)
		},
	}
}
