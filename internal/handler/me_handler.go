package handler

import (
	"net/http"

	"notifyhub/internal/middleware"
	"notifyhub/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type MeHandler struct {
	authSvc *service.AuthService
}

func NewMeHandler(authSvc *service.AuthService) *MeHandler {
	return &MeHandler{authSvc: authSvc}
}

// GetProfile handles GET /users/me.
func (h *MeHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// RegisterFCMToken saves the FCM token for push notifications.
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := middleware.CurrentUser(c)
	if err := h.authSvc.RegisterFCMToken(c.Request.Context(), u, req.Token); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("[FCM] save token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token saved"})
}
