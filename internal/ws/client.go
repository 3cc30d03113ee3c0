package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Client is one open push channel owned by a single user. A user may hold several at once
// (devices, tabs); reconnecting always creates a new Client.
type Client struct {
	UserID uuid.UUID
	// Send is drained by the connection's write pump. It is closed exactly once, by Close.
	Send chan []byte

	mu     sync.Mutex
	hub    *Hub
	closed bool
}

func NewClient(userID uuid.UUID, buffer int) *Client {
	if buffer < 1 {
		buffer = 1
	}
	return &Client{UserID: userID, Send: make(chan []byte, buffer)}
}

func (c *Client) attach(h *Hub) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.hub = h
	return true
}

// enqueue hands data to the write pump without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close moves the client to CLOSED and deregisters it from its hub. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	h := c.hub
	c.mu.Unlock()

	if h != nil {
		h.Disconnect(c.UserID, c)
	}
}

func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
