// SPDX-License-Identifier: MIT

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/session"
	"github.com/katalvlaran/digitile/threshold"
	"github.com/katalvlaran/digitile/tile"
)

type loadRequest struct {
	Scales       int                  `json:"nbs"`
	Angles       int                  `json:"nba"`
	AllCurvelets bool                 `json:"ac"`
	Cursor       selection.CursorMode `json:"cursor"`
	Click        selection.ClickMode  `json:"click"`
}

type loadResponse struct {
	ID     string         `json:"id"`
	Params session.Params `json:"params"`
	Shape  curvelet.Shape `json:"shape"`
	Extent tile.Extent    `json:"extent"`
	Label  string         `json:"label"`
}

type modesRequest struct {
	Cursor selection.CursorMode `json:"cursor"`
	Click  selection.ClickMode  `json:"click"`
}

type thresholdRequest struct {
	Factor *float64 `json:"factor"`
	Slider *int     `json:"slider"`
}

type thresholdResponse struct {
	Report threshold.Report `json:"report"`
	Dirty  bool             `json:"dirty"`
}

type eventsResponse struct {
	Events []selection.Event   `json:"events"`
	Blocks []session.BlockInfo `json:"blocks,omitempty"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": Version})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	req := loadRequest{Scales: 5, Angles: 8, AllCurvelets: true}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p := session.Params{
		Config: tile.Config{Scales: req.Scales, Angles: req.Angles, AllCurvelets: req.AllCurvelets},
		Cursor: req.Cursor,
		Click:  req.Click,
	}
	if err := s.sess.LoadFixture(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.sess.View()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loadResponse{
		ID:     s.sess.ID(),
		Params: v.Params,
		Shape:  s.sess.Original().Shape(),
		Extent: v.Extent,
		Label:  v.Label,
	})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	v, err := s.sess.View()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// blocksFor attaches block statistics to every ShowRequested event.
func (s *Server) blocksFor(events []selection.Event) []session.BlockInfo {
	var out []session.BlockInfo
	for _, e := range events {
		if e.Kind != selection.ShowRequested {
			continue
		}
		info, err := s.sess.Block(e.Key())
		if err != nil {
			slog.Warn("Block stats unavailable", slog.String("key", e.Key().String()), slog.Any("error", err))
			continue
		}
		out = append(out, info)
	}

	return out
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var in selection.Input
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	events, err := s.sess.Deliver(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: nonNil(events), Blocks: s.blocksFor(events)})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	var req modesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.sess.SetModes(req.Cursor, req.Click); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	switch {
	case req.Factor != nil && req.Slider != nil:
		writeError(w, fmt.Errorf("%w: factor and slider are exclusive", errBadRequest))
		return
	case req.Factor != nil:
		if err := s.sess.SetFactor(*req.Factor); err != nil {
			writeError(w, err)
			return
		}
	case req.Slider != nil:
		if err := s.sess.SetFactor(threshold.FactorFromSlider(*req.Slider, s.sliderScale)); err != nil {
			writeError(w, err)
			return
		}
	}
	rep, err := s.sess.Apply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thresholdResponse{Report: rep, Dirty: s.sess.Dirty()})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if !s.sess.Loaded() {
		writeError(w, session.ErrNotReady)
		return
	}
	keys := s.sess.Selection()
	writeJSON(w, http.StatusOK, map[string]any{
		"selection": nonNil(keys),
		"labels":    lo.Map(keys, func(k curvelet.Key, _ int) string { return k.String() }),
		"dirty":     s.sess.Dirty(),
	})
}

func (s *Server) handleShowSelected(w http.ResponseWriter, r *http.Request) {
	events, err := s.sess.ShowSelected(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: nonNil(events), Blocks: s.blocksFor(events)})
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	level, _ := strconv.Atoi(vars["level"]) // route pattern guarantees digits
	angle, _ := strconv.Atoi(vars["angle"])
	info, err := s.sess.Block(curvelet.Key{Level: level, Angle: angle})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sess.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Put(snap); err != nil {
		writeError(w, err)
		return
	}
	s.stats.RecSnapshot("put")
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List()
	if err != nil {
		writeError(w, err)
		return
	}
	s.stats.RecSnapshot("list")
	writeJSON(w, http.StatusOK, nonNil(snaps))
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.stats.RecSnapshot("miss")
		writeError(w, err)
		return
	}
	s.stats.RecSnapshot("get")
	writeJSON(w, http.StatusOK, snap)
}

// Deleting an unknown id succeeds.
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	s.stats.RecSnapshot("delete")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(mux.Vars(r)["id"])
	if err != nil {
		s.stats.RecSnapshot("miss")
		writeError(w, err)
		return
	}
	if err := s.sess.Restore(r.Context(), snap); err != nil {
		writeError(w, err)
		return
	}
	s.stats.RecSnapshot("restore")
	s.handleTile(w, r)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}

	return v
}
