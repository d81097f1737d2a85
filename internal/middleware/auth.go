package middleware

import (
	"net/http"
	"strings"

	"github.com/braikhq/braik/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID       = "user_id"
	ContextEmail        = "email"
	ContextPlatformRole = "platform_role"
)

// AuthRequired is a middleware that checks for a valid JWT token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "unauthenticated", "error": "invalid or expired token"})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextPlatformRole, claims.Role)

		c.Next()
	}
}

// PlatformOwnerRequired is a middleware that checks for the platform owner role
func PlatformOwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextPlatformRole)
		if !exists || role != "owner" {
			c.JSON(http.StatusForbidden, gin.H{"kind": "permission_denied", "error": "platform owner access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetEmail gets the current user email from context
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextEmail); exists {
		return email.(string)
	}
	return ""
}

// GetPlatformRole gets the current user's platform role from context
func GetPlatformRole(c *gin.Context) string {
	if role, exists := c.Get(ContextPlatformRole); exists {
		return role.(string)
	}
	return ""
}
