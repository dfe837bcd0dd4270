// SPDX-License-Identifier: MIT

package obvy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by InitTracing.
const (
	ExporterNone      = "none"
	ExporterOTLP      = "otlp"
	ExporterHoneycomb = "honeycomb"
)

// InitOTelHNY configures OpenTelemetry through the Honeycomb launcher,
// which reads its settings from the OTEL_* and HONEYCOMB_* environment.
func InitOTelHNY() (func(), error) {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		return nil, fmt.Errorf("failed to configure OpenTelemetry: %w", err)
	}

	return func() { otelShutdown() }, nil
}

// InitOTelOTLP installs a batching OTLP/HTTP tracer provider with trace
// context and baggage propagation.
func InitOTelOTLP(ctx context.Context) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

// InitTracing installs the named exporter and returns its shutdown.
// ExporterNone leaves the global no-op provider in place.
func InitTracing(ctx context.Context, exporter string) (func(context.Context) error, error) {
	switch exporter {
	case "", ExporterNone:
		return func(context.Context) error { return nil }, nil
	case ExporterHoneycomb:
		shutdown, err := InitOTelHNY()
		if err != nil {
			return nil, err
		}
		slog.Info("Tracing enabled", slog.String("exporter", exporter))

		return func(context.Context) error {
			shutdown()
			return nil
		}, nil
	case ExporterOTLP:
		tp, err := InitOTelOTLP(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to configure OTLP exporter: %w", err)
		}
		slog.Info("Tracing enabled", slog.String("exporter", exporter))

		return tp.Shutdown, nil
	}

	return nil, fmt.Errorf("unknown trace exporter %q", exporter)
}
