// SPDX-License-Identifier: MIT

package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/digitile/selection"
)

const clientBuffer = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans selection events out to websocket clients. It implements
// selection.Observer and never blocks the caller: a client whose buffer is
// full loses the event.
type Hub struct {
	mu      sync.Mutex
	clients map[chan selection.Event]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan selection.Event]struct{})}
}

// Notify broadcasts e.
func (h *Hub) Notify(e selection.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- e:
		default:
			slog.Warn("Websocket client lagging, event dropped", slog.String("event", e.String()))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

func (h *Hub) add() chan selection.Event {
	ch := make(chan selection.Event, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func (h *Hub) remove(ch chan selection.Event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// ServeHTTP upgrades the connection and streams events as JSON until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := h.add()
	defer h.remove(ch)

	// The reader only notices the close frame.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e := <-ch:
			if err := conn.WriteJSON(e); err != nil {
				return // Connection closed
			}
		case <-gone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
