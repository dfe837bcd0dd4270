// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/digitile/config"
	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/server"
	"github.com/katalvlaran/digitile/session"
	"github.com/katalvlaran/digitile/store"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tile over HTTP with a websocket event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := a.start(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Flags().Changed("addr") {
				s.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, s)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")

	return cmd
}

func serve(ctx context.Context, s *config.Settings) error {
	shutdownTracing, err := obvy.InitTracing(ctx, s.Exporter)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("Tracing shutdown failed", slog.Any("error", err))
		}
	}()

	st, err := store.Open(s.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	params, err := server.Settings(s)
	if err != nil {
		return err
	}
	stats := obvy.NewStats()
	hub := server.NewHub()
	sess := session.New(
		session.WithStats(stats),
		session.WithObserver(hub),
		session.WithFixture(s.FixtureBlock, s.FixtureSeed),
	)
	if err := sess.LoadFixture(ctx, params); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.HTTPAddr,
		Handler:           server.New(sess, st, stats, hub, s.SliderScale).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Serving", slog.String("addr", s.HTTPAddr), slog.String("session", sess.ID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any("error", err))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Shutting down")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
