// SPDX-License-Identifier: MIT

// Package obvy carries observability: a private Prometheus registry with
// the engine counters, and OpenTelemetry tracer bootstrap.
package obvy
