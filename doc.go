// SPDX-License-Identifier: MIT

// Package digitile is an interactive digital curvelet tile: a square,
// concentric picture of a curvelet decomposition where every wedge can be
// hovered, shown and selected, and where a hard threshold is applied to
// the selected wedges only.
//
// 🚀 What is digitile?
//
//	A small, thread-safe engine that brings together:
//		• Geometry: exact wedge quadrilaterals for nbs scales and nba angles
//		• Tile index: a flat record arena with hover/chosen/edited flags
//		• Selection: a cell/level cursor and show/select click state machine
//		• Threshold: |c| > factor·E(i,j), applied per selected wedge
//		• Session: load, deliver, apply, dirty tracking and snapshots
//
// Under the hood, everything is organized under these subpackages:
//
//	curvelet/  — coefficient structure, energy table, deterministic fixture
//	matrix/    — dense coefficient blocks and element-wise kernels
//	tile/      — wedge geometry, tile index, hit testing
//	selection/ — cursor & click modes, event queue, observers
//	threshold/ — thresholding engine, slider and gain helpers
//	session/   — the serialized facade used by every front end
//	store/     — badger-backed session snapshots
//	obvy/      — Prometheus metrics and OpenTelemetry tracing
//	config/    — DIGITILE_* environment and JSON settings
//	server/    — HTTP API, websocket events, /metrics
//	display/   — tcell terminal view
//
// Run the terminal view or the server:
//
//	go run ./cmd/digitile view --nbs 4 --nba 8
//	go run ./cmd/digitile serve --addr :8090
package digitile
