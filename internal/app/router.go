// internal/app/router.go
package app

import (
	billingHandler "academy-service/internal/handlers/billing"
	entitlementHandler "academy-service/internal/handlers/entitlement"
	kpiHandler "academy-service/internal/handlers/kpi"
	tenantHandler "academy-service/internal/handlers/tenant"
	"academy-service/internal/middleware"
	"academy-service/internal/service/access"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	EntitlementHandler *entitlementHandler.EntitlementHandler
	KPIHandler         *kpiHandler.KPIHandler
	BillingHandler     *billingHandler.BillingHandler
	TenantHandler      *tenantHandler.TenantHandler
	AuthMiddleware     *middleware.AuthMiddleware
	Tenant             gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")
	allow := h.AuthMiddleware.RequirePermission

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Tenant (x-org-slug) ====================
	api.GET("/tenant", h.Tenant, h.TenantHandler.GetTenant)

	// ==================== Academy scoped ====================
	org := api.Group("/orgs/:slug")
	org.Use(h.AuthMiddleware.Auth(), h.Tenant)
	{
		org.GET("/me/entitlement", allow(access.ActionViewEntitlement), h.EntitlementHandler.GetMyEntitlement)
		org.GET("/access", allow(access.ActionViewEntitlement), h.EntitlementHandler.CheckAccess)

		org.GET("/kpis", allow(access.ActionViewKPIs), h.KPIHandler.GetKPIs)
		org.DELETE("/kpis/:month", allow(access.ActionManageKPIs), h.KPIHandler.InvalidateKPIs)
	}

	// ==================== Billing ====================
	billing := org.Group("/billing")
	{
		billing.POST("/sync/plans", allow(access.ActionSyncBilling), h.BillingHandler.SyncPlans)
		billing.POST("/sync/users", allow(access.ActionSyncBilling), h.BillingHandler.SyncUsers)
		billing.GET("/acquirers", allow(access.ActionListAcquirers), h.BillingHandler.ListAcquirers)
		billing.GET("/payments/summary", allow(access.ActionViewPayments), h.BillingHandler.PaymentSummary)

		// Retired: split into sync/plans and sync/users
		billing.POST("/odoo/sync", h.BillingHandler.LegacyOdooSync)
	}
}
