package middleware

import (
	"net/http"

	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

const authenticatedKey = "authenticated"

// Session reads the admin flag from the session cookie on every request.
func Session(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authenticatedKey, sessions.IsAuthenticated(c))
		c.Next()
	}
}

// IsAuthenticated reports the flag set by Session.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(authenticatedKey)
}

// AdminOnly rejects requests without an admin session.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}
