package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/pkg/token"
)

// RequireRole rejects requests whose path token (named by paramName) is
// missing, malformed, expired, or scoped to a different role. The legacy
// frontend passes the bearer token as the last path segment, so there is
// no Authorization header to read.
func RequireRole(tokens *token.Service, role token.Role, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.Param(paramName)
		if tok == "" || !tokens.Validate(tok, role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or unauthorized token"})
			return
		}
		c.Next()
	}
}
