package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidscope/internal/auth"
	"vidscope/internal/models"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// requireAuth rejects requests without a valid bearer token before any
// pipeline work runs.
func requireAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorEnvelope{
				Error: apiError{Message: "missing or invalid token", Code: "unauthenticated"},
			})
			return
		}

		claims, err := tokens.Verify(header[7:])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorEnvelope{
				Error: apiError{Message: "missing or invalid token", Code: "unauthenticated"},
			})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireAdmin guards the cross-owner listings.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorEnvelope{
				Error: apiError{Message: "admin role required", Code: "forbidden"},
			})
			return
		}
		c.Next()
	}
}
