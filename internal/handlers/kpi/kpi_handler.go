// internal/handlers/kpi/kpi_handler.go
package kpi

import (
	"context"
	"net/http"

	"academy-service/internal/domain/kpi"
	"academy-service/internal/middleware"
	"academy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Service interface {
	GetKPIs(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error)
	Invalidate(ctx context.Context, academyID int64, month string) error
}

type KPIHandler struct {
	kpiService Service
}

func NewKPIHandler(kpiService Service) *KPIHandler {
	return &KPIHandler{kpiService: kpiService}
}

// GetKPIs returns the academy metrics for ?month=YYYY-MM
func (h *KPIHandler) GetKPIs(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		response.ValidationError(c, "month query parameter is required (YYYY-MM)", nil)
		return
	}

	a := middleware.MustGetAcademy(c)
	metrics, err := h.kpiService.GetKPIs(c.Request.Context(), a.ID, month)
	if err != nil {
		response.FromError(c, "failed to load kpis", err)
		return
	}

	response.Success(c, http.StatusOK, "kpis retrieved", metrics)
}

// InvalidateKPIs drops the cached month
func (h *KPIHandler) InvalidateKPIs(c *gin.Context) {
	a := middleware.MustGetAcademy(c)
	if err := h.kpiService.Invalidate(c.Request.Context(), a.ID, c.Param("month")); err != nil {
		response.FromError(c, "failed to invalidate kpis", err)
		return
	}

	response.Success(c, http.StatusOK, "kpi cache invalidated", nil)
}
