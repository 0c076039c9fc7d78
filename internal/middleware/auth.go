package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectpulse/project-management-api/internal/apperrors"
	"github.com/projectpulse/project-management-api/internal/auth"
	"github.com/projectpulse/project-management-api/internal/models"
	"github.com/projectpulse/project-management-api/internal/services"
)

// ContextKeyUser is the gin context key holding the resolved principal.
const ContextKeyUser = "current_user"

// RequireAuth verifies the bearer access token and resolves the acting user
// for the request. Every failure collapses to the same opaque 401.
func RequireAuth(tokens *auth.TokenService, authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.InvalidCredentials(c)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			apperrors.InvalidCredentials(c)
			c.Abort()
			return
		}

		user, err := authService.ResolveUser(claims)
		if err != nil {
			apperrors.InvalidCredentials(c)
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the resolved principal from the context.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
