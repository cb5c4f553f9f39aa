package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/writeflow/authsvc/internal/domain/user"
)

// RequireRole gates a route on the resolved user's role. Runs after
// RequireAuth, which guarantees the identity keys are set.
func (m *AuthMiddleware) RequireRole(required user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": required.String() + " role required",
				},
			})
			return
		}

		c.Next()
	}
}
