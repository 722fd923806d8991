package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced on the REST surface
		return true
	},
}

// Hub maintains active WebSocket connections and fans out decisions
type Hub struct {
	log *zap.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:        log.Named("ws"),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run services registrations until ctx is done, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client_connected", zap.String("client", client.id), zap.Int("total", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client_disconnected", zap.String("client", client.id), zap.Int("total", n))

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToChannel sends a message to all clients subscribed to a channel.
// Slow clients miss messages rather than stall the caller.
func (h *Hub) BroadcastToChannel(channel string, data interface{}) {
	message, err := json.Marshal(data)
	if err != nil {
		h.log.Error("marshal_error", zap.String("channel", channel), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.IsSubscribed(channel) {
			select {
			case client.send <- message:
			default:
				h.log.Warn("client_buffer_full", zap.String("client", client.id), zap.String("channel", channel))
			}
		}
	}
}

// Client represents a WebSocket connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	subscriptions map[string]bool
	subsMu        sync.RWMutex
}

// IsSubscribed checks if client is subscribed to a channel
func (c *Client) IsSubscribed(channel string) bool {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	return c.subscriptions[channel]
}

func (c *Client) Subscribe(channel string) {
	c.subsMu.Lock()
	c.subscriptions[channel] = true
	c.subsMu.Unlock()
}

func (c *Client) Unsubscribe(channel string) {
	c.subsMu.Lock()
	delete(c.subscriptions, channel)
	c.subsMu.Unlock()
}

// readPump handles subscription requests until the connection drops
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("read_error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}

		var req WSSubscribeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.hub.log.Debug("invalid_message", zap.String("client", c.id), zap.Error(err))
			continue
		}

		switch req.Op {
		case "subscribe":
			for _, channel := range req.Channels {
				c.Subscribe(channel)
			}
		case "unsubscribe":
			for _, channel := range req.Channels {
				c.Unsubscribe(channel)
			}
		default:
			c.hub.log.Debug("unknown_op", zap.String("client", c.id), zap.String("op", req.Op))
			continue
		}
		c.hub.log.Debug("subscriptions_changed",
			zap.String("client", c.id),
			zap.String("op", req.Op),
			zap.Strings("channels", req.Channels))
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
// Each message is sent as its own text frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocket handles WebSocket upgrade and client lifecycle
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws_upgrade_error", zap.Error(err))
		return
	}

	client := &Client{
		hub:           s.hub,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		id:            conn.RemoteAddr().String(),
		subscriptions: make(map[string]bool),
	}

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
