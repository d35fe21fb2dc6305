package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/auth"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userNameKey = "userName"
	userRoleKey = "userRole"
)

// publicPath reports whether the endpoint is reachable without a token.
func publicPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/auth/") ||
		path == "/api/v1/health" ||
		path == "/metrics"
}

// Auth validates bearer tokens and stores the principal in context.
// CORS preflights and public endpoints pass through untouched.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if publicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		principal, err := auth.ValidateToken(bearerToken(c))
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, principal.UserID)
		c.Set(userNameKey, principal.Username)
		c.Set(userRoleKey, principal.Role)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header. Returns
// empty for a missing header or a non-bearer scheme; validation rejects
// the empty token downstream.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFromContext fetches the principal set by the auth middleware.
func PrincipalFromContext(c *gin.Context) auth.Principal {
	if c == nil {
		return auth.Principal{}
	}
	return auth.Principal{
		UserID:   c.GetString(userIDKey),
		Username: c.GetString(userNameKey),
		Role:     c.GetString(userRoleKey),
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}
