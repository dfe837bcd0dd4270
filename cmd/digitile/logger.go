// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// multiHandler sends each record to every handler that accepts its level.
type multiHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.file.Enabled(ctx, r.Level) {
		if err := h.file.Handle(ctx, r); err != nil {
			return err
		}
	}
	if h.console.Enabled(ctx, r.Level) {
		if err := h.console.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{
		console: h.console.WithAttrs(attrs),
		file:    h.file.WithAttrs(attrs),
	}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{
		console: h.console.WithGroup(name),
		file:    h.file.WithGroup(name),
	}
}

// newLogger logs text to console at level and, when logFile is set, JSON
// at debug level to a rotated file. The cleanup closes the file.
func newLogger(console io.Writer, level slog.Level, logFile string) (*slog.Logger, func(), error) {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		return slog.New(consoleHandler), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		LocalTime:  true,
	}
	fileHandler := slog.NewJSONHandler(lj, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	})

	logger := slog.New(&multiHandler{console: consoleHandler, file: fileHandler})
	cleanup := func() {
		if err := lj.Close(); err != nil {
			slog.Error("Failed to close log file", slog.Any("error", err))
		}
	}

	return logger, cleanup, nil
}

// setupLogger installs the default logger.
func setupLogger(console io.Writer, level slog.Level, logFile string) (func(), error) {
	logger, cleanup, err := newLogger(console, level, logFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return cleanup, nil
}
