package middleware

import (
	"net/http"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/gin-gonic/gin"
)

// RequireRoles restricts a route to the listed roles. A caller with the
// wrong role is sent to their own dashboard, not to login.
//
// It never resolves the user itself: an AuthMiddleware earlier in the chain
// must have set "role". Calling another middleware inline would advance the
// gin chain past this check, so the gate only inspects the context.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "redirect": "/login"})
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":    "you do not have access to this resource",
			"redirect": models.UserRole(role).DashboardPath(),
		})
		c.Abort()
	}
}
