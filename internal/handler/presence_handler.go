package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PresenceSource reports live connection state; *ws.Hub implements it.
type PresenceSource interface {
	OnlineUsers() int
	IsOnline(userID uuid.UUID) bool
	ConnectionCount(userID uuid.UUID) int
}

type PresenceHandler struct {
	hub PresenceSource
}

func NewPresenceHandler(hub PresenceSource) *PresenceHandler {
	return &PresenceHandler{hub: hub}
}

// Health handles GET /health.
func (h *PresenceHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "online_users": h.hub.OnlineUsers()})
}

// UserPresence handles GET /admin/presence/:id for superusers.
func (h *PresenceHandler) UserPresence(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":     id,
		"online":      h.hub.IsOnline(id),
		"connections": h.hub.ConnectionCount(id),
	})
}
