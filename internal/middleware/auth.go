package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/taskflow/internal/constants"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/logger"
	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/services"
	"github.com/yukikurage/taskflow/internal/token"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
}

// RequireAuth checks the bearer token and attaches the caller's identity.
// Every rejection carries the same body.
func RequireAuth(auth Authenticator, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, constants.BearerPrefix)
		if !ok || strings.TrimSpace(raw) == "" {
			metrics.AuthFailure("missing_token")
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			switch {
			case errors.Is(err, token.ErrInvalidToken):
				metrics.AuthFailure("invalid_token")
				apierrors.Unauthorized(c, "")
			case errors.Is(err, services.ErrUnauthenticated):
				metrics.AuthFailure("unknown_user")
				apierrors.Unauthorized(c, "")
			default:
				logger.FromContext(c.Request.Context()).Error("failed to authenticate request", zap.Error(err))
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)

		log := logger.FromContext(c.Request.Context()).With(zap.String("user_id", user.ID))
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log))

		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
