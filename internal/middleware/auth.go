// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFromHeader(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

// RoleRequired gates a route on an exact role. Must run after AuthRequired.
func RoleRequired(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := utils.GetPrincipalFromContext(c)
		if !exists || principal.Role != role {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient privileges",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := principalFromHeader(c); ok {
			c.Set("principal", principal)
		}
		c.Next()
	}
}

func principalFromHeader(c *gin.Context) (*models.Principal, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	principal, err := utils.VerifyJWT(parts[1])
	if err != nil {
		return nil, false
	}

	return principal, true
}
