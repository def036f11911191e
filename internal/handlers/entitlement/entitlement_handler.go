// internal/handlers/entitlement/entitlement_handler.go
package entitlement

import (
	"context"
	"net/http"
	"time"

	"academy-service/internal/domain/membership"
	"academy-service/internal/middleware"
	"academy-service/internal/pkg/response"
	"academy-service/internal/service/access"

	"github.com/gin-gonic/gin"
)

type Resolver interface {
	Resolve(ctx context.Context, userID int64, now time.Time) (*membership.Entitlement, error)
}

type EntitlementHandler struct {
	resolver Resolver
	now      func() time.Time
}

func NewEntitlementHandler(resolver Resolver) *EntitlementHandler {
	return &EntitlementHandler{resolver: resolver, now: time.Now}
}

// GetMyEntitlement returns the caller's current entitlement
func (h *EntitlementHandler) GetMyEntitlement(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	ent, err := h.resolver.Resolve(c.Request.Context(), sess.UserID, h.now())
	if err != nil {
		response.FromError(c, "failed to resolve entitlement", err)
		return
	}

	response.Success(c, http.StatusOK, "entitlement retrieved", ent)
}

type accessResult struct {
	access.Decision
	Path          string `json:"path"`
	HasActivePlan bool   `json:"has_active_plan"`
}

// CheckAccess tells the client whether the caller may open ?path= inside the
// tenant, or where to redirect instead
func (h *EntitlementHandler) CheckAccess(c *gin.Context) {
	p := c.Query("path")
	if p == "" {
		response.ValidationError(c, "path query parameter is required", nil)
		return
	}

	sess := middleware.MustGetSession(c)
	a := middleware.MustGetAcademy(c)

	ent, err := h.resolver.Resolve(c.Request.Context(), sess.UserID, h.now())
	if err != nil {
		response.FromError(c, "failed to resolve entitlement", err)
		return
	}

	decision := access.Guard(ent.HasActivePlan, "/"+a.Slug, p)
	response.Success(c, http.StatusOK, "access evaluated", accessResult{
		Decision:      decision,
		Path:          p,
		HasActivePlan: ent.HasActivePlan,
	})
}
