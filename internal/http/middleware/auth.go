package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"carpool/internal/auth"
)

const (
	identityKey = "identity"

	// SessionCookie is the signed session cookie set on login.
	SessionCookie = "cp_session"
)

// RequireAuth validates the session token and aborts unauthenticated
// requests: browsers get a redirect to the login page, API clients a 401.
func RequireAuth(sessions auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		id, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if wantsHTML(c) {
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// proceeds anonymously otherwise.
func OptionalAuth(sessions auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if id, err := sessions.Validate(c.Request.Context(), token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// GetIdentity returns the authenticated caller, if any.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id, true
		}
	}
	return auth.Identity{}, false
}

// tokenFromRequest prefers the session cookie, then the bearer header.
func tokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
