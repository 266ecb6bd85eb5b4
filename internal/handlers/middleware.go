package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// basicAuthMiddleware guards the admin API with the credentials from config.
// The service runs on localhost for a single admin; Basic over the loopback
// is the whole threat model here.
func (h *Handler) basicAuthMiddleware(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="tunestatus"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
		return
	}
	if !h.services.VerifyBasic(username, password) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid credentials",
		})
		return
	}
	c.Next()
}
