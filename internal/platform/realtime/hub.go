// Package realtime pushes committed mutations to websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/olahol/melody"

	"hrms/internal/platform/events"
)

type message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Hub struct {
	m *melody.Melody
}

// NewHub accepts websocket upgrades from allowedOrigins; "*" allows any.
func NewHub(allowedOrigins []string) *Hub {
	m := melody.New()
	if !slices.Contains(allowedOrigins, "*") {
		m.Upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		}
	} else {
		m.Upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	m.HandleConnect(func(s *melody.Session) {
		slog.Info("websocket connected", "remote", s.Request.RemoteAddr)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		slog.Info("websocket disconnected", "remote", s.Request.RemoteAddr)
	})
	m.HandleError(func(s *melody.Session, err error) {
		slog.Warn("websocket error", "remote", s.Request.RemoteAddr, "err", err)
	})
	return &Hub{m: m}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.m.HandleRequest(w, r); err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
	}
}

// Broadcast sends {"event": name, "data": payload} to every session.
func (h *Hub) Broadcast(name string, data any) error {
	payload, err := json.Marshal(message{Event: name, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if h.m.IsClosed() {
		return nil
	}
	return h.m.Broadcast(payload)
}

// Subscriber adapts the hub to the event bus.
func (h *Hub) Subscriber() events.Handler {
	return func(ctx context.Context, evt events.Event) error {
		return h.Broadcast(evt.Name, evt.Data)
	}
}

func (h *Hub) Sessions() int {
	return h.m.Len()
}

func (h *Hub) Close() error {
	if h.m.IsClosed() {
		return nil
	}
	return h.m.Close()
}
