package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/domain"
)

// clientBuffer bounds how many undrained messages a slow connection may
// hold before further broadcasts to it are dropped.
const clientBuffer = 16

// Client is one connected app instance listening for its user's
// dispatched notifications.
type Client struct {
	userID string
	send   chan domain.RenderedMessage
}

// Messages returns the channel the connection writer drains. The hub
// closes it on Unregister.
func (c *Client) Messages() <-chan domain.RenderedMessage {
	return c.send
}

// Hub fans dispatched messages out to connected clients, keyed by user.
// A user may hold several connections (phone and tablet); each gets its
// own copy. Everything is best-effort: an absent or slow client is
// skipped, never waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string][]*Client),
		logger:  logger,
	}
}

// Register adds a connection for userID and returns its client handle.
func (h *Hub) Register(userID string) *Client {
	c := &Client{userID: userID, send: make(chan domain.RenderedMessage, clientBuffer)}
	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], c)
	h.mu.Unlock()
	return c
}

// Unregister removes the connection and closes its message channel.
// Idempotent: both the read and write side of a connection may call it.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[c.userID]
	for i, existing := range conns {
		if existing != c {
			continue
		}
		conns = append(conns[:i], conns[i+1:]...)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		} else {
			h.clients[c.userID] = conns
		}
		close(c.send)
		return
	}
}

// Broadcast delivers msg to every connection of userID. Full buffers are
// dropped rather than blocking the dispatch pipeline.
func (h *Hub) Broadcast(userID string, msg domain.RenderedMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("realtime client buffer full, message dropped",
				zap.String("user_id", userID))
		}
	}
}

// ConnectionCount reports how many connections userID currently holds.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
