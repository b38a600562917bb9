package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUsername = "username"

// sessionMiddleware accepts a bearer token only while its subject is the user
// of the active session. Logging out (from any host) invalidates every token.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	username, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	st := h.services.CurrentSession()
	if !st.IsAuthenticated || st.CurrentUser != username {
		if h.log != nil {
			h.log.Infow("auth_stale_token", "username", username)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "session ended",
		})
		return
	}

	c.Set(ctxUsername, username)
	c.Next()
}
