package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beneficlub/backoffice/internal/infrastructure/auth"
	"github.com/beneficlub/backoffice/internal/shared/constants"
	apperrors "github.com/beneficlub/backoffice/internal/shared/errors"
	"github.com/beneficlub/backoffice/internal/shared/logger"
	"github.com/beneficlub/backoffice/internal/shared/utils"
)

// TokenVerifier is satisfied by *auth.JWTService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth accepts an operator access token from the Authorization header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("missing authorization token"))
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				utils.ErrorResponseWithError(c, apperrors.NewTokenExpiredError())
			} else {
				m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
				utils.ErrorResponseWithError(c, apperrors.NewTokenInvalidError())
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOperatorID, claims.OperatorSID)
		c.Next()
	}
}

// OperatorSID returns the authenticated operator, or "" outside RequireAuth.
func OperatorSID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyOperatorID)
}
