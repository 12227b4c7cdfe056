package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tripdesk/tripdesk/internal/shared/constants"
	"github.com/tripdesk/tripdesk/internal/shared/errors"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils"
)

// PolicyEnforcer decides whether role may perform action on resource.
type PolicyEnforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission must run after AuthMiddleware.RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(constants.ContextKeySubject)
		if subject == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			return
		}
		role := c.GetString(constants.ContextKeyRole)

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "subject", subject, "role", role, "resource", resource, "action", action)
			utils.AbortWithError(c, errors.NewInternalError("permission check failed"))
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "subject", subject, "role", role, "resource", resource, "action", action)
			utils.AbortWithError(c, errors.NewForbiddenError("insufficient permissions"))
			return
		}

		c.Next()
	}
}
