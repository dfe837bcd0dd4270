// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/katalvlaran/digitile/config"
	"github.com/katalvlaran/digitile/curvelet"
	"github.com/katalvlaran/digitile/obvy"
	"github.com/katalvlaran/digitile/selection"
	"github.com/katalvlaran/digitile/session"
	"github.com/katalvlaran/digitile/store"
	"github.com/katalvlaran/digitile/threshold"
	"github.com/katalvlaran/digitile/tile"
)

// Version is reported by /api/version.
var Version = "dev"

// Server holds the handlers' collaborators.
type Server struct {
	sess        *session.Session
	store       *store.Store
	stats       *obvy.Stats
	hub         *Hub
	sliderScale float64
}

// New wires a server. The hub should also be registered as a session
// observer so /ws sees the events.
func New(sess *session.Session, st *store.Store, stats *obvy.Stats, hub *Hub, sliderScale float64) *Server {
	if sliderScale <= 0 {
		sliderScale = threshold.DefaultSliderScale
	}
	if stats == nil {
		stats = obvy.NewStats()
	}
	if hub == nil {
		hub = NewHub()
	}

	return &Server{sess: sess, store: st, stats: stats, hub: hub, sliderScale: sliderScale}
}

// Router returns the mux with every route registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", s.stats.Handler())
	r.Handle("/ws", s.hub)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.StatsMiddleware)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handleLoad).Methods(http.MethodPost)
	api.HandleFunc("/tile", s.handleTile).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodPost)
	api.HandleFunc("/modes", s.handleModes).Methods(http.MethodPut)
	api.HandleFunc("/threshold", s.handleThreshold).Methods(http.MethodPost)
	api.HandleFunc("/selection", s.handleSelection).Methods(http.MethodGet)
	api.HandleFunc("/selection/show", s.handleShowSelected).Methods(http.MethodPost)
	api.HandleFunc("/blocks/{level:[0-9]+}/{angle:[0-9]+}", s.handleBlock).Methods(http.MethodGet)
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodPost)
	api.HandleFunc("/snapshot", s.handleListSnapshots).Methods(http.MethodGet)
	api.HandleFunc("/snapshot/{id}", s.handleGetSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/snapshot/{id}", s.handleDeleteSnapshot).Methods(http.MethodDelete)
	api.HandleFunc("/snapshot/{id}/restore", s.handleRestore).Methods(http.MethodPost)

	return r
}

// Handler returns the router wrapped in OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.Router(), "digitile")
}

// RespWriter records the status code for StatsMiddleware.
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader records status and forwards it.
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// StatsMiddleware counts API responses by code and method.
func (s *Server) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

// statusOf maps sentinel errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrNotReady), errors.Is(err, selection.ErrNotReady), errors.Is(err, tile.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tile.ErrOutOfRange),
		errors.Is(err, tile.ErrBadConfig),
		errors.Is(err, curvelet.ErrOutOfRange),
		errors.Is(err, curvelet.ErrShape),
		errors.Is(err, threshold.ErrBadFactor),
		errors.Is(err, threshold.ErrShape),
		errors.Is(err, selection.ErrBadMode),
		errors.Is(err, session.ErrNoStructure),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		slog.Error("Request failed", slog.Any("error", err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}

	return nil
}

// Settings converts loaded settings into the session Params a fresh load uses.
func Settings(cfg *config.Settings) (session.Params, error) {
	cursor, err := selection.ParseCursorMode(cfg.Tile.Cursor)
	if err != nil {
		return session.Params{}, err
	}
	click, err := selection.ParseClickMode(cfg.Tile.Click)
	if err != nil {
		return session.Params{}, err
	}

	return session.Params{Config: cfg.Tile.Config(), Cursor: cursor, Click: click}, nil
}
