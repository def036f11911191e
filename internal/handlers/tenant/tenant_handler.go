// internal/handlers/tenant/tenant_handler.go
package tenant

import (
	"net/http"

	"academy-service/internal/domain/academy"
	"academy-service/internal/middleware"
	"academy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type tenantView struct {
	ID             int64               `json:"id"`
	Slug           string              `json:"slug"`
	Name           string              `json:"name"`
	Type           academy.AcademyType `json:"type"`
	LogoURL        string              `json:"logo_url,omitempty"`
	PrimaryColor   string              `json:"primary_color,omitempty"`
	BillingEnabled bool                `json:"billing_enabled"`
}

type TenantHandler struct{}

func NewTenantHandler() *TenantHandler {
	return &TenantHandler{}
}

// GetTenant returns the public profile of the academy resolved by the Tenant middleware
func (h *TenantHandler) GetTenant(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	response.Success(c, http.StatusOK, "tenant resolved", tenantView{
		ID:             a.ID,
		Slug:           a.Slug,
		Name:           a.Name,
		Type:           a.Type,
		LogoURL:        a.LogoURL,
		PrimaryColor:   a.PrimaryColor,
		BillingEnabled: a.BillingReady(),
	})
}
