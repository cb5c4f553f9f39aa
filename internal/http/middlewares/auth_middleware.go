package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/token"
)

// UserResolver is the sliver of the auth service the middleware needs.
// Kept small so tests can fake it.
type UserResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (user.User, error)
}

type AuthMiddleware struct {
	resolver UserResolver
}

func NewAuthMiddleware(resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth resolves the bearer access token to a live user on every
// protected request. Deactivated or deleted users are rejected here even
// when their token is still cryptographically valid.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		u, err := m.resolver.CurrentUser(c.Request.Context(), raw)

		if err != nil {
			switch {
			case errors.Is(err, token.ErrInvalidToken), errors.Is(err, auth.ErrUnauthorized):
				abortUnauthorized(c, "Invalid or expired access token")
			default:
				// store failure; not the caller's fault
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    "internal_error",
						"message": "Could not resolve identity",
					},
				})
			}
			return
		}

		// Stash the resolved identity on the context
		c.Set(CtxUser, u)
		c.Set(CtxEmail, u.Email)
		c.Set(CtxRole, u.Role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (user.Role, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(user.Role)
	return role, ok
}
