package middleware

import (
	"net/http"
	"strings"

	"github.com/eduguide/eduguide-backend/config"
	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware resolves the caller from a Bearer token. Unauthenticated
// requests get a 401 with the login redirect so clients know where to send
// the user.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// mobile clients send X-Auth-Token instead
		if authHeader == "" {
			authHeader = c.GetHeader("X-Auth-Token")
		}

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header", "redirect": "/login"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed Authorization header", "redirect": "/login"})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "redirect": "/login"})
			c.Abort()
			return
		}

		// The role is read from the database, not the token, so a role
		// switch takes effect without reissuing the token.
		var user models.User
		if err := config.DB.Select("role").First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found", "redirect": "/login"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(user.Role))
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through and attaches the
// user when a valid token is present.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.GetHeader("X-Auth-Token")
		}
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// DBMiddleware injects the gorm handle for controllers.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}
