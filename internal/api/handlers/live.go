package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/stanzixinwan/del-game/internal/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // observer API, read-only
	},
}

// LiveHub pushes every game event to connected websocket clients. The
// simulation hands events to Sink, which never blocks the tick: events go
// through a buffered channel and a slow hub drops rather than stalls.
type LiveHub struct {
	logger *zap.Logger
	events chan *domain.Event

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewLiveHub(logger *zap.Logger) *LiveHub {
	h := &LiveHub{
		logger:  logger,
		events:  make(chan *domain.Event, 256),
		clients: make(map[*websocket.Conn]struct{}),
	}
	go h.run()
	return h
}

// Sink receives an event from the simulation. Non-blocking: if the buffer
// is full the event is dropped for the live feed (pollers still see it in
// /v1/events).
func (h *LiveHub) Sink(ev *domain.Event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("live feed buffer full, dropping event",
			zap.String("event_id", ev.ID),
			zap.String("kind", string(ev.Kind)))
	}
}

func (h *LiveHub) run() {
	for ev := range h.events {
		h.broadcast(ev)
	}
}

func (h *LiveHub) broadcast(ev *domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Serve upgrades the connection and streams events until the client hangs
// up. Inbound messages are discarded; the feed is one-way.
func (h *LiveHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("live feed client connected", zap.String("remote_addr", r.RemoteAddr))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}
