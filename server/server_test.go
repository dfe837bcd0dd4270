// SPDX-License-Identifier: MIT

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/server"
	"github.com/katalvlaran/digitile/session"
	"github.com/katalvlaran/digitile/store"
)

type event struct {
	Kind        string `json:"kind"`
	Level       int    `json:"level"`
	Angle       int    `json:"angle"`
	Interactive bool   `json:"interactive"`
	NonEmpty    bool   `json:"non_empty"`
}

type fixture struct {
	hub  *server.Hub
	http *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	stats := obvy.NewStats()
	hub := server.NewHub()
	sess := session.New(session.WithStats(stats), session.WithObserver(hub), session.WithFixture(3, 7))
	srv := server.New(sess, st, stats, hub, 0)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{hub: hub, http: ts}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.http.URL+path, rd)
	require.NoError(t, err)
	resp, err := f.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, out
}

func (f *fixture) load(t *testing.T, body string) {
	t.Helper()

	code, out := f.do(t, http.MethodPost, "/api/session", body)
	require.Equal(t, http.StatusOK, code, string(out))
}

func TestServer_NotLoaded(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/tile", "/api/selection"} {
		code, _ := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusConflict, code, path)
	}
	code, _ := f.do(t, http.MethodPost, "/api/events", `{"level":1,"angle":0,"kind":"press"}`)
	assert.Equal(t, http.StatusConflict, code)
}

func TestServer_Version(t *testing.T) {
	f := newFixture(t)

	code, out := f.do(t, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"version":"dev"}`, string(out))
}

func TestServer_LoadAndTile(t *testing.T) {
	f := newFixture(t)

	code, out := f.do(t, http.MethodPost, "/api/session", `{"nbs":4,"nba":8,"ac":true}`)
	require.Equal(t, http.StatusOK, code, string(out))
	var loaded struct {
		ID    string `json:"id"`
		Shape []int  `json:"shape"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(out, &loaded))
	assert.NotEmpty(t, loaded.ID)
	assert.Equal(t, []int{1, 8, 16, 16}, loaded.Shape)
	assert.Equal(t, "Number of scales = 4\nNumber of angles = 8", loaded.Label)

	code, out = f.do(t, http.MethodGet, "/api/tile", "")
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Wedges []struct {
			Status string `json:"status"`
		} `json:"wedges"`
	}
	require.NoError(t, json.Unmarshal(out, &view))
	assert.Len(t, view.Wedges, 41)
	assert.Equal(t, "normal", view.Wedges[0].Status)
}

func TestServer_LoadRejects(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad angles", `{"nbs":4,"nba":12}`},
		{"too few scales", `{"nbs":2}`},
		{"bad cursor", `{"cursor":"row"}`},
		{"unknown field", `{"scales":4}`},
		{"not json", `nbs=4`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := f.do(t, http.MethodPost, "/api/session", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestServer_SelectAndThreshold(t *testing.T) {
	f := newFixture(t)
	f.load(t, `{"nbs":4,"nba":8,"ac":true,"click":"select"}`)

	code, out := f.do(t, http.MethodPost, "/api/events", `{"level":2,"angle":3,"kind":"press"}`)
	require.Equal(t, http.StatusOK, code, string(out))
	var resp struct {
		Events []event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "selection_changed", resp.Events[0].Kind)
	assert.True(t, resp.Events[0].NonEmpty)

	code, out = f.do(t, http.MethodGet, "/api/selection", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"selection":[{"level":2,"angle":3}],"labels":["(2,3)"],"dirty":true}`, string(out))

	code, out = f.do(t, http.MethodPost, "/api/threshold", `{"slider":50}`)
	require.Equal(t, http.StatusOK, code, string(out))
	var th struct {
		Report struct {
			Factor float64 `json:"factor"`
		} `json:"report"`
		Dirty bool `json:"dirty"`
	}
	require.NoError(t, json.Unmarshal(out, &th))
	assert.InDelta(t, 1.0, th.Report.Factor, 1e-12)
	assert.False(t, th.Dirty)

	code, _ = f.do(t, http.MethodPost, "/api/threshold", `{"factor":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = f.do(t, http.MethodPost, "/api/threshold", `{"factor":1,"slider":3}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_OutOfRangeInput(t *testing.T) {
	f := newFixture(t)
	f.load(t, `{"nbs":3,"nba":8}`)

	code, _ := f.do(t, http.MethodPost, "/api/events", `{"level":7,"angle":0,"kind":"press"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = f.do(t, http.MethodPost, "/api/events", `{"level":1,"angle":0,"kind":"hold"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_ModesAndShow(t *testing.T) {
	f := newFixture(t)
	f.load(t, `{"nbs":4,"nba":8,"click":"select"}`)

	code, _ := f.do(t, http.MethodPost, "/api/events", `{"level":1,"angle":5,"kind":"press"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPut, "/api/modes", `{"cursor":"level","click":"show"}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPut, "/api/modes", `{"cursor":"ring","click":"show"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out := f.do(t, http.MethodPost, "/api/selection/show", "")
	require.Equal(t, http.StatusOK, code)
	var resp struct {
		Events []event `json:"events"`
		Blocks []struct {
			Key struct {
				Level int `json:"level"`
				Angle int `json:"angle"`
			} `json:"key"`
			Original struct {
				Rows int `json:"rows"`
			} `json:"original"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, event{Kind: "show_requested", Level: 1, Angle: 5}, resp.Events[0])
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, 5, resp.Blocks[0].Key.Angle)
	assert.Positive(t, resp.Blocks[0].Original.Rows)

	code, _ = f.do(t, http.MethodGet, "/api/blocks/1/5", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodGet, "/api/blocks/1/99", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_SnapshotRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.load(t, `{"nbs":3,"nba":8,"click":"select"}`)

	code, _ := f.do(t, http.MethodPost, "/api/events", `{"level":1,"angle":1,"kind":"press"}`)
	require.Equal(t, http.StatusOK, code)

	code, out := f.do(t, http.MethodPost, "/api/snapshot", "")
	require.Equal(t, http.StatusCreated, code, string(out))
	var snap struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(out, &snap))
	require.NotEmpty(t, snap.ID)

	code, out = f.do(t, http.MethodGet, "/api/snapshot/"+snap.ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"selection":[{"level":1,"angle":1}]`)

	// A fresh load wipes the selection; restore brings it back.
	f.load(t, `{"nbs":3,"nba":8}`)
	code, out = f.do(t, http.MethodGet, "/api/selection", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"selection":[]`)

	code, out = f.do(t, http.MethodPost, "/api/snapshot/"+snap.ID+"/restore", "")
	require.Equal(t, http.StatusOK, code, string(out))
	code, out = f.do(t, http.MethodGet, "/api/selection", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `"selection":[{"level":1,"angle":1}]`)

	code, _ = f.do(t, http.MethodGet, "/api/snapshot/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_ListSnapshots(t *testing.T) {
	f := newFixture(t)

	code, out := f.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(out))

	f.load(t, `{"nbs":3,"nba":8,"click":"select"}`)
	ids := make(map[string]bool)
	for range 2 {
		code, out = f.do(t, http.MethodPost, "/api/snapshot", "")
		require.Equal(t, http.StatusCreated, code, string(out))
		var snap struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(out, &snap))
		ids[snap.ID] = true
	}

	code, out = f.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, code)
	var list []struct {
		ID     string `json:"id"`
		Config struct {
			Scales int `json:"nbs"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(out, &list))
	require.Len(t, list, 2)
	assert.Less(t, list[0].ID, list[1].ID)
	for _, s := range list {
		assert.True(t, ids[s.ID], "unexpected snapshot %s", s.ID)
		assert.Equal(t, 3, s.Config.Scales)
	}

	code, _ = f.do(t, http.MethodDelete, "/api/snapshot/"+list[0].ID, "")
	require.Equal(t, http.StatusNoContent, code)
	code, _ = f.do(t, http.MethodGet, "/api/snapshot/"+list[0].ID, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, out = f.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), list[1].ID)
	assert.NotContains(t, string(out), list[0].ID)
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/tile", "")

	code, out := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(out), `digitile_http_requests_total{code="409",method="GET"} 1`)
}

func TestServer_Websocket(t *testing.T) {
	f := newFixture(t)
	f.load(t, `{"nbs":3,"nba":8}`)

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	body := bytes.NewBufferString(`{"level":1,"angle":6,"kind":"enter"}`)
	resp, err := f.http.Client().Post(f.http.URL+"/api/events", "application/json", body)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event{Kind: "entered", Level: 1, Angle: 6}, got)
}

func TestHub_NotifyWithoutClients(t *testing.T) {
	h := server.NewHub()
	assert.Zero(t, h.Clients())
	assert.NotPanics(t, func() { h.Notify(selection.Event{Kind: selection.Entered}) })
}
