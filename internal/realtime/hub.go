// Package realtime maintains WebSocket subscribers and fans events out
// to them.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"edu-tutor-api/pkg/logger"
	"edu-tutor-api/pkg/metrics"
)

// EventNewUsage is emitted after each successfully persisted chat record.
const EventNewUsage = "nuevo-uso"

// Envelope is the frame written to subscribers.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is a registry of connected subscribers with fire-and-forget
// publishing: no acknowledgment, no replay, subscribers only receive
// events published while they are connected.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
}

// NewHub creates a hub. Origins are checked against allowedOrigins,
// where "*" admits any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return &Hub{
		subscribers: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Subscribe upgrades the request to a WebSocket and keeps the
// connection registered until the client disconnects.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	// Drain inbound frames; the read loop only exists to notice the
	// disconnect. Subscribers never send application data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends payload under event to every currently connected
// subscriber. Write failures drop the offending connection; zero
// subscribers is a normal, silent condition.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		logger.Error(context.Background(), "failed to marshal broadcast payload", err, "event", event)
		return
	}

	// The write lock also serializes writers: gorilla connections do
	// not support concurrent WriteMessage calls.
	h.mu.Lock()
	for conn := range h.subscribers {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.subscribers, conn)
		}
	}
	metrics.RealtimeSubscribers.Set(float64(len(h.subscribers)))
	h.mu.Unlock()

	metrics.BroadcastsTotal.WithLabelValues(event).Inc()
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.subscribers[conn] = true
	metrics.RealtimeSubscribers.Set(float64(len(h.subscribers)))
	h.mu.Unlock()
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.subscribers, conn)
	metrics.RealtimeSubscribers.Set(float64(len(h.subscribers)))
	h.mu.Unlock()
	conn.Close()
}
