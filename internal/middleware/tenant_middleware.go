package middleware

import (
	"context"

	"academy-service/internal/domain/academy"
	"academy-service/internal/pkg/response"
	"academy-service/internal/service/tenant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TenantResolver interface {
	Resolve(ctx context.Context, slug string) (academy.Resolution, error)
}

// Tenant resolves the academy from the :slug path segment, falling back to
// the x-org-slug header, and aborts with 404 when it does not exist.
func Tenant(resolver TenantResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := tenant.SlugFrom(c.Param("slug"), c.GetHeader(tenant.HeaderOrgSlug))
		if slug == "" {
			response.ValidationError(c, "academy identifier is required", nil)
			return
		}

		res, err := resolver.Resolve(c.Request.Context(), slug)
		if err != nil {
			logger.Error("tenant resolution failed", zap.String("slug", slug), zap.Error(err))
			response.FromError(c, "failed to resolve academy", err)
			return
		}

		a, ok := res.Academy()
		if !ok {
			response.NotFound(c, "academy not found")
			return
		}

		SetAcademy(c, a)
		c.Next()
	}
}
