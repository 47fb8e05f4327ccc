package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/api"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "userID"
	// ContextSessionToken holds the raw token the user id was resolved from.
	ContextSessionToken = "sessionToken"
	// CookieName is the cookie carrying the session token.
	CookieName = "session"
)

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// TokenFromRequest returns the session token from the cookie or, failing
// that, from an "Authorization: Bearer" header.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// SessionRequired returns a Gin middleware that rejects requests without a
// valid session with 401.
func SessionRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Error: "authentication required", Code: "Unauthorized"})
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			slog.Warn("session rejected", "remote_addr", c.ClientIP(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Error: "invalid or expired session", Code: "Unauthorized"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextSessionToken, token)
		c.Next()
	}
}

// OptionalSession sets the user id when a valid session is present and
// lets every request through.
func OptionalSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if userID, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ContextUserID, userID)
				c.Set(ContextSessionToken, token)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" when none was set.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
