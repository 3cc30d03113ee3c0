package handler

import (
	"errors"
	"net/http"

	"notifyhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// pageQuery binds ?skip=&limit=. Zero values fall back to the service defaults.
type pageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=0"`
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service sentinels to status codes; anything else is logged and returned as 500.
func respondError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	default:
		log.WithError(err).WithFields(log.Fields{
			"path":     c.FullPath(),
			"resource": resource,
		}).Error("[http] request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
