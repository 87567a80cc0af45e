package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/domain"
	"tutorhub/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(required domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != string(required) {
			response.Error(c, http.StatusForbidden, "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// StudentOnly middleware requires the Student role
func StudentOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleStudent)
}

// TutorOnly middleware requires the Tutor role
func TutorOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleTutor)
}
