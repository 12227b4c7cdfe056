package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripdesk/tripdesk/internal/infrastructure/auth"
	"github.com/tripdesk/tripdesk/internal/shared/constants"
	"github.com/tripdesk/tripdesk/internal/shared/errors"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils"
	"github.com/tripdesk/tripdesk/internal/shared/utils/logutil"
)

// TokenVerifier validates a bearer token and returns its claims.
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

// RequireAuth rejects requests without a valid bearer token and stores the
// subject and role on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("missing authorization token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
			return
		}
		token := strings.TrimSpace(parts[1])

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token",
				"error", err,
				"token_prefix", logutil.TruncateForLog(token, 10),
			)
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(constants.ContextKeySubject, claims.Subject)
		c.Set(constants.ContextKeyRole, claims.Role)

		c.Next()
	}
}
