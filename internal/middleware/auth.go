package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/pkg/auth"
	"github.com/pulse-social/pulse/pkg/logger"
)

const (
	UserKey  = "currentUser"
	TokenKey = "accessToken"
)

// UserLookup resolves the user id carried by a token.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware validates the bearer token and stores the caller under UserKey.
func AuthMiddleware(jwtManager *auth.JWTManager, revoker auth.Revoker, users UserLookup) gin.HandlerFunc {
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, "Token is missing")
			return
		}

		userID, err := jwtManager.UserID(token)
		if err != nil {
			abort(c, "Token is invalid")
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), token)
		if err != nil {
			logger.Error("revocation check failed", zap.Error(err), zap.String("request_id", RequestIDFrom(c)))
		}
		if err != nil || revoked {
			abort(c, "Token is invalid")
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abort(c, "User not found")
			return
		}
		if err != nil {
			logger.Error("loading token user failed", zap.Error(err), zap.String("request_id", RequestIDFrom(c)))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the caller resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(UserKey).(*models.User)
}

// CurrentToken returns the raw bearer token of the request.
func CurrentToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
}
