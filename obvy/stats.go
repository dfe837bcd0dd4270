// SPDX-License-Identifier: MIT

package obvy

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "digitile"

// Stats is the internal metric set exposed on /metrics.
type Stats struct {
	reg *prometheus.Registry

	inputs    *prometheus.CounterVec
	events    *prometheus.CounterVec
	applies   prometheus.Histogram
	retained  prometheus.Gauge
	wedges    prometheus.Gauge
	selected  prometheus.Gauge
	snapshots *prometheus.CounterVec
	www       *prometheus.CounterVec
}

// NewStats builds a Stats on its own registry, with the Go and process
// collectors attached.
func NewStats() *Stats {
	reg := prometheus.NewRegistry()
	s := &Stats{
		reg: reg,
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_total",
			Help:      "Pointer inputs delivered to the selection machine.",
		}, []string{"kind"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events emitted by the selection machine.",
		}, []string{"kind"}),
		applies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Threshold apply latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		retained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "retained_energy_ratio",
			Help:      "Energy ratio kept by the last threshold apply.",
		}),
		wedges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tile_wedges",
			Help:      "Wedges in the current tile.",
		}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_wedges",
			Help:      "Wedges in the selection set.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshot store operations.",
		}, []string{"op"}),
		www: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by status code and method.",
		}, []string{"code", "method"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.inputs, s.events, s.applies, s.retained, s.wedges, s.selected, s.snapshots, s.www,
	)

	return s
}

// Handler serves the registry.
func (s *Stats) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{Registry: s.reg})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (s *Stats) Registry() *prometheus.Registry { return s.reg }

// RecInput counts one delivered input.
func (s *Stats) RecInput(kind string) { s.inputs.WithLabelValues(kind).Inc() }

// RecEvent counts one emitted event.
func (s *Stats) RecEvent(kind string) { s.events.WithLabelValues(kind).Inc() }

// RecApply records an apply's latency and retained energy ratio.
func (s *Stats) RecApply(d time.Duration, retained float64) {
	s.applies.Observe(d.Seconds())
	s.retained.Set(retained)
}

// SetWedges records the wedge count of the current tile.
func (s *Stats) SetWedges(n int) { s.wedges.Set(float64(n)) }

// SetSelected records the selection size.
func (s *Stats) SetSelected(n int) { s.selected.Set(float64(n)) }

// RecSnapshot counts one store operation ("put", "get", "list", "delete", "miss").
func (s *Stats) RecSnapshot(op string) { s.snapshots.WithLabelValues(op).Inc() }

// RecWWW counts one API response.
func (s *Stats) RecWWW(code, method string) { s.www.WithLabelValues(code, method).Inc() }
