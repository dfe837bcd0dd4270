// SPDX-License-Identifier: MIT

// Package server exposes a session over HTTP: a JSON API under /api, a
// websocket event stream on /ws and Prometheus metrics on /metrics.
package server
