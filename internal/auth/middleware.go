package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "

	contextKeyUserID   = "user_id"
	contextKeyUsername = "username"
)

// UserIDFromContext returns the current user ID set by RequireAuth. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// UsernameFromContext returns the current username set by RequireAuth.
func UsernameFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUsername)
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

// RequireAuth returns a middleware that checks the Authorization header for a
// valid bearer token and sets the current user in context. Missing, malformed,
// expired or badly signed tokens all respond with 401.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyUsername, claims.Username)
		c.Next()
	}
}
