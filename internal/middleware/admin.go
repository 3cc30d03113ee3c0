package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuperuserRequired checks that the loaded user is a superuser. Use after LoadUser.
func SuperuserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "the user doesn't have enough privileges"})
			return
		}
		c.Next()
	}
}
