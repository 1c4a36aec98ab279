package remote

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks connected clients and fans serialized frames out to them.
// A client whose send queue is full is disconnected instead of blocking
// everyone else.
type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	unregister chan *Client
	done       chan struct{}

	mu      sync.Mutex
	clients map[*Client]struct{}
	stopped bool

	sendBuf int
}

// HubConfig sizes the hub queues. Zero values pick defaults.
type HubConfig struct {
	// SendBuf is the per-client outbound queue size.
	SendBuf int
	// BroadcastBuf is the hub inbound broadcast queue size.
	BroadcastBuf int
}

// NewHub constructs a hub. Call Run(ctx) to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 16
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 64
	}

	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		unregister: make(chan *Client, 16),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Run processes hub events until ctx is canceled, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Debug("remote hub starting")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("remote hub stopping")
			h.closeAllClients()
			return

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			// collect slow clients first, remove them after unlocking
			var slow []*Client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

// Register adds c to the hub. It reports false once the hub has stopped; the
// caller then owns the connection.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("remote client connected", "remote_addr", c.remoteAddr, "clients", n)
	return true
}

// Unregister asks the hub to drop c. It does not block after the hub stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients returns the number of registered clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastBytes enqueues a serialized frame for every client.
// It never blocks; a full hub queue drops the frame.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("remote broadcast queue full, dropping frame", "bytes", len(msg))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.closeSend()
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	// closing send makes the write pump exit
	c.closeSend()
	h.logger.Info("remote client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
}
