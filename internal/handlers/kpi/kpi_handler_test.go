package kpi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/kpi"
	"academy-service/internal/middleware"
	xerrors "academy-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

type stubKPIs struct {
	invalidated []string
}

func (s *stubKPIs) GetKPIs(_ context.Context, academyID int64, month string) (*kpi.Metrics, error) {
	if _, err := kpi.ParseMonth(month); err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}
	return &kpi.Metrics{AcademyID: academyID, Month: month, ActiveMembers: 12}, nil
}

func (s *stubKPIs) Invalidate(_ context.Context, _ int64, month string) error {
	s.invalidated = append(s.invalidated, month)
	return nil
}

func serve(svc Service, method, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	h := NewKPIHandler(svc)

	r := gin.New()
	g := r.Group("/orgs/:slug", func(c *gin.Context) {
		middleware.SetAcademy(c, &academy.Academy{ID: 3, Slug: c.Param("slug")})
	})
	g.GET("/kpis", h.GetKPIs)
	g.DELETE("/kpis/:month", h.InvalidateKPIs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGetKPIs(t *testing.T) {
	tests := []struct {
		path   string
		status int
	}{
		{"/orgs/gjj/kpis?month=2024-05", http.StatusOK},
		{"/orgs/gjj/kpis?month=May", http.StatusBadRequest},
		{"/orgs/gjj/kpis", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := serve(&stubKPIs{}, http.MethodGet, tt.path); w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, w.Code, tt.status)
		}
	}
}

func TestInvalidateKPIs(t *testing.T) {
	svc := &stubKPIs{}
	if w := serve(svc, http.MethodDelete, "/orgs/gjj/kpis/2024-05"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(svc.invalidated) != 1 || svc.invalidated[0] != "2024-05" {
		t.Errorf("invalidated = %v", svc.invalidated)
	}
}
