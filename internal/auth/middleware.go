package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth.
const (
	CtxAdminID  = "admin_id"
	CtxUsername = "admin_username"
)

// RequireAuth enforces an authenticated session from the cookie or an
// Authorization bearer carrying the same signed token.
func RequireAuth(svc *Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		ident, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(CtxAdminID, ident.AdminID)
		c.Set(CtxUsername, ident.Username)
		c.Next()
	}
}

// AdminID extracts the authenticated admin id from a request context.
func AdminID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// TokenFromRequest extracts the session token from the named cookie, falling
// back to an Authorization bearer header. Both carry the same signed token.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	authz := c.GetHeader("Authorization")
	if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}
