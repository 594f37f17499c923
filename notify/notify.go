// Package notify fans wallet-change signals out to connected
// websocket clients. The event is a pure invalidation signal; clients
// re-fetch wallet state on receipt.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Pending events per connection before the peer counts as
	// stalled and is dropped.
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

type message struct {
	Type string      `json:"type"`
	Data messageData `json:"data"`
}

type messageData struct {
	UserID string `json:"userId"`
}

// Hub tracks websocket connections per user and broadcasts
// wallet-update events to them. Each connection gets a buffered send
// channel drained by its own writer goroutine; broadcasts never wait
// on a peer's socket.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]chan []byte
	logger  zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*websocket.Conn]chan []byte),
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Register adds a connection to a user's topic and starts its writer.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	send := make(chan []byte, sendBuffer)

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]chan []byte)
	}
	h.clients[userID][conn] = send
	h.mu.Unlock()

	go h.writer(userID, conn, send)
}

// Unregister removes and closes a connection. Safe to call twice.
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[userID]
	if !ok {
		return
	}
	send, ok := conns[conn]
	if !ok {
		return
	}

	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, userID)
	}

	close(send)
	_ = conn.Close()
}

// WalletChanged broadcasts a wallet-update event to every connection
// of the user. A connection whose send buffer is full is dropped
// instead of holding the broadcast back.
func (h *Hub) WalletChanged(userID string) {
	payload, _ := json.Marshal(message{
		Type: "wallet-update",
		Data: messageData{UserID: userID},
	})

	var stalled []*websocket.Conn

	h.mu.Lock()
	for conn, send := range h.clients[userID] {
		select {
		case send <- payload:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range stalled {
		h.logger.Warn().Str("user", userID).
			Msg("dropping stalled websocket connection")
		h.Unregister(userID, conn)
	}
}

func (h *Hub) writer(userID string, conn *websocket.Conn,
	send chan []byte) {
	for payload := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(
			websocket.TextMessage, payload); err != nil {
			h.logger.Warn().Err(err).Str("user", userID).
				Msg("dropping dead websocket connection")
			h.Unregister(userID, conn)
			return
		}
	}
}
