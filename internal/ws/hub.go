package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Hub tracks the open push channels of every connected user and fans payloads out to them.
// One Hub is built at startup and shared by the WebSocket handler and the notification producers.
type Hub struct {
	mu sync.RWMutex
	// userID -> clients (one user can have multiple connections)
	byUser map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[uuid.UUID]map[*Client]struct{})}
}

// Connect registers c under userID. A client that is already closed is ignored.
func (h *Hub) Connect(userID uuid.UUID, c *Client) {
	if !c.attach(h) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][c] = struct{}{}
}

// Disconnect removes c from userID's set and drops the user's entry once it is empty.
// Unknown clients are ignored.
func (h *Hub) Disconnect(userID uuid.UUID, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.byUser[userID]
	if m == nil {
		return
	}
	delete(m, c)
	if len(m) == 0 {
		delete(h.byUser, userID)
	}
}

// SendToUser delivers payload to every open connection of userID and returns how many accepted it.
// Offline users are a no-op. A connection that cannot take the message is closed and removed;
// the others still receive it.
func (h *Hub) SendToUser(userID uuid.UUID, payload interface{}) int {
	h.mu.RLock()
	m := h.byUser[userID]
	if len(m) == 0 {
		h.mu.RUnlock()
		return 0
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[ws] unable to encode push payload")
		return 0
	}

	delivered := 0
	for _, c := range clients {
		if c.enqueue(data) {
			delivered++
			continue
		}
		log.WithField("user_id", userID).Warn("[ws] dropping stale connection")
		c.Close()
		// Close only deregisters attached clients; make sure a foreign one is gone too.
		h.Disconnect(userID, c)
	}
	return delivered
}

// ConnectionCount returns the number of open connections for userID.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

func (h *Hub) IsOnline(userID uuid.UUID) bool {
	return h.ConnectionCount(userID) > 0
}

// OnlineUsers returns the number of users with at least one open connection.
func (h *Hub) OnlineUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}
