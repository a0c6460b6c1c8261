package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/checkus/checkus-api/internal/access"
	"github.com/checkus/checkus-api/internal/models"
	"github.com/checkus/checkus-api/internal/service"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
	"github.com/checkus/checkus-api/pkg/response"
)

// Authorize enforces the requirement produced for each request. The builder
// runs per request so requirements can reference path parameters.
func Authorize(metrics *service.MetricsService, build func(c *gin.Context) access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if err := access.Authorize(claims, build(c)); err != nil {
			if errors.Is(err, appErrors.ErrUnauthorized) {
				metrics.RecordAuthFailure("unauthenticated")
			} else {
				metrics.RecordAuthFailure("forbidden")
			}
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles allows callers holding at least one of the given roles.
func RequireRoles(metrics *service.MetricsService, roles ...models.UserRole) gin.HandlerFunc {
	return Authorize(metrics, func(*gin.Context) access.Requirement {
		return access.AnyOf(roles...)
	})
}

// RequireRolesOrOwner allows the given roles, or the caller whose subject id
// matches the named path parameter.
func RequireRolesOrOwner(metrics *service.MetricsService, param string, roles ...models.UserRole) gin.HandlerFunc {
	return Authorize(metrics, func(c *gin.Context) access.Requirement {
		return access.AnyOf(roles...).OrOwner(c.Param(param))
	})
}

// RequireOwner allows only the caller whose subject id matches the named path
// parameter.
func RequireOwner(metrics *service.MetricsService, param string) gin.HandlerFunc {
	return Authorize(metrics, func(c *gin.Context) access.Requirement {
		return access.Owner(c.Param(param))
	})
}
