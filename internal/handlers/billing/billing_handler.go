// internal/handlers/billing/billing_handler.go
package billing

import (
	"context"
	"net/http"
	"time"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/billing"
	"academy-service/internal/domain/payment"
	"academy-service/internal/middleware"
	xerrors "academy-service/internal/pkg/errors"
	"academy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	SyncAllPlans(ctx context.Context, a *academy.Academy) (*billing.SyncReport, error)
	SyncAllUsers(ctx context.Context, a *academy.Academy) (*billing.SyncReport, error)
	ListActiveAcquirers(ctx context.Context, a *academy.Academy) ([]billing.Acquirer, error)
	PaymentSummary(ctx context.Context, academyID int64, now time.Time) (*payment.LifecycleSummary, error)
}

type BillingHandler struct {
	billingService Service
	logger         *zap.Logger
}

func NewBillingHandler(billingService Service, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: billingService, logger: logger}
}

// SyncPlans mirrors the academy plans into the billing catalog
func (h *BillingHandler) SyncPlans(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	report, err := h.billingService.SyncAllPlans(c.Request.Context(), a)
	h.respondSync(c, "plans", report, err)
}

// SyncUsers mirrors the academy users into billing contacts
func (h *BillingHandler) SyncUsers(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	report, err := h.billingService.SyncAllUsers(c.Request.Context(), a)
	h.respondSync(c, "users", report, err)
}

// respondSync returns the report even on partial failure so the caller sees
// which records did not make it
func (h *BillingHandler) respondSync(c *gin.Context, kind string, report *billing.SyncReport, err error) {
	if err == nil {
		response.Success(c, http.StatusOK, kind+" synced", report)
		return
	}
	if report != nil && report.Total > 0 && xerrors.Is(err, xerrors.ErrExternalSystem) {
		response.Error(c, http.StatusInternalServerError, kind+" sync incomplete", xerrors.ErrExternalSystem, report)
		return
	}
	response.FromError(c, kind+" sync failed", err)
}

// ListAcquirers returns payment methods available at checkout
func (h *BillingHandler) ListAcquirers(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	list, err := h.billingService.ListActiveAcquirers(c.Request.Context(), a)
	if err != nil {
		response.FromError(c, "failed to list payment methods", err)
		return
	}

	response.Success(c, http.StatusOK, "payment methods retrieved", list)
}

// PaymentSummary groups academy payments by lifecycle state
func (h *BillingHandler) PaymentSummary(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	summary, err := h.billingService.PaymentSummary(c.Request.Context(), a.ID, time.Now())
	if err != nil {
		response.FromError(c, "failed to summarize payments", err)
		return
	}

	response.Success(c, http.StatusOK, "payment summary retrieved", summary)
}

// LegacyOdooSync is the retired combined sync endpoint
func (h *BillingHandler) LegacyOdooSync(c *gin.Context) {
	h.logger.Info("deprecated billing endpoint called", zap.String("path", c.FullPath()))
	response.Gone(c, "endpoint retired: use /billing/sync/plans and /billing/sync/users")
}
