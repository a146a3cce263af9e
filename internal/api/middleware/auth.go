package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != utils.RoleAdmin {
			utils.SendForbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CustomerOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsValidRole(c.GetString(UserRoleKey)) {
			utils.SendForbidden(c, "Valid user role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
