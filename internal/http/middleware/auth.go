package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quorail/orgauth/internal/token"
)

const requesterKey = "requesterID"

// Auth resolves the bearer token on protected routes and attaches the
// requesting identity to the request context.
type Auth struct {
	Tokens *token.Issuer
}

// RequireToken ensures the request carries a valid bearer token. Missing,
// malformed, and expired tokens all abort with the same authentication
// failure envelope.
func (m *Auth) RequireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortUnauthenticated(c)
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		abortUnauthenticated(c)
		return
	}

	userID, err := m.Tokens.Resolve(parts[1])
	if err != nil {
		abortUnauthenticated(c)
		return
	}

	c.Set(requesterKey, userID)
	c.Next()
}

// RequesterID exposes the resolved identity to handlers.
func RequesterID(c *gin.Context) (string, bool) {
	value, ok := c.Get(requesterKey)
	if !ok {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":     "Bad request",
		"message":    "Authentication failed",
		"statusCode": http.StatusUnauthorized,
	})
}
