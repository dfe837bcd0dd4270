// SPDX-License-Identifier: MIT

package obvy

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Counters(t *testing.T) {
	s := NewStats()
	s.RecInput("press")
	s.RecInput("press")
	s.RecEvent("entered")
	s.RecWWW("200", "GET")
	s.RecSnapshot("put")
	s.SetWedges(25)
	s.SetSelected(3)
	s.RecApply(3*time.Millisecond, 0.75)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.inputs.WithLabelValues("press")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.events.WithLabelValues("entered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.www.WithLabelValues("200", "GET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.snapshots.WithLabelValues("put")))
	assert.Equal(t, 25.0, testutil.ToFloat64(s.wedges))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.selected))
	assert.Equal(t, 0.75, testutil.ToFloat64(s.retained))
}

func TestStats_Handler(t *testing.T) {
	s := NewStats()
	s.RecInput("enter")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `digitile_inputs_total{kind="enter"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInitTracing(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), ExporterNone)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = InitTracing(context.Background(), "zipkin")
	require.Error(t, err)
}
