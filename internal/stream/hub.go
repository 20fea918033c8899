// Package stream broadcasts sampled simulation frames to websocket viewers.
// Publishing never blocks the simulation: frames that find the queue full are
// dropped.
package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans frames out to every connected client. It implements http.Handler
// for the websocket endpoint.
type Hub struct {
	logger *slog.Logger
	queue  chan any

	mu      sync.Mutex
	clients map[*client]struct{}
	hello   any
	closed  bool
}

// NewHub returns a hub whose queue holds up to buffer pending frames.
func NewHub(logger *slog.Logger, buffer int) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		logger:  logger,
		queue:   make(chan any, buffer),
		clients: make(map[*client]struct{}),
	}
}

// SetHello sets the frame every new client receives first.
func (h *Hub) SetHello(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hello = v
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues v for broadcast and reports whether it was accepted.
func (h *Hub) Publish(v any) bool {
	select {
	case h.queue <- v:
		return true
	default:
		return false
	}
}

// Run broadcasts queued frames until ctx is cancelled, then disconnects all
// clients.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-h.queue:
			h.broadcast(v)
		}
	}
}

func (h *Hub) broadcast(v any) {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.send(v); err != nil {
			h.logger.Warn("stream client dropped", "remote", c.conn.RemoteAddr().String(), "err", err)
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	h.closed = true
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for _, c := range list {
		_ = c.conn.Close()
	}
}

// ServeHTTP upgrades the request and keeps the client registered until its
// connection fails. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn}

	// c.mu is held until the hello is written, so a concurrent broadcast
	// cannot reach the client first.
	c.mu.Lock()
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	hello := h.hello
	h.mu.Unlock()
	if hello != nil {
		err = conn.WriteJSON(hello)
	}
	c.mu.Unlock()
	if err != nil {
		h.remove(c)
		return
	}
	h.logger.Debug("stream client connected", "remote", conn.RemoteAddr().String())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}
