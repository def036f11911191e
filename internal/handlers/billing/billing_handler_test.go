package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/billing"
	"academy-service/internal/domain/payment"
	"academy-service/internal/middleware"
	xerrors "academy-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubService struct {
	report    *billing.SyncReport
	syncErr   error
	acquirers []billing.Acquirer
	acqErr    error
}

func (s *stubService) SyncAllPlans(context.Context, *academy.Academy) (*billing.SyncReport, error) {
	return s.report, s.syncErr
}

func (s *stubService) SyncAllUsers(context.Context, *academy.Academy) (*billing.SyncReport, error) {
	return s.report, s.syncErr
}

func (s *stubService) ListActiveAcquirers(context.Context, *academy.Academy) ([]billing.Acquirer, error) {
	return s.acquirers, s.acqErr
}

func (s *stubService) PaymentSummary(_ context.Context, academyID int64, now time.Time) (*payment.LifecycleSummary, error) {
	return &payment.LifecycleSummary{AcademyID: academyID, AsOf: now}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func serve(svc Service, method, path string) (*httptest.ResponseRecorder, envelope) {
	gin.SetMode(gin.TestMode)
	h := NewBillingHandler(svc, zap.NewNop())

	r := gin.New()
	g := r.Group("/orgs/:slug", func(c *gin.Context) {
		middleware.SetAcademy(c, &academy.Academy{ID: 1, Slug: c.Param("slug")})
	})
	g.POST("/billing/sync/plans", h.SyncPlans)
	g.POST("/billing/sync/users", h.SyncUsers)
	g.GET("/billing/acquirers", h.ListAcquirers)
	g.GET("/billing/payments/summary", h.PaymentSummary)
	g.POST("/billing/odoo/sync", h.LegacyOdooSync)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestSyncPlansSuccess(t *testing.T) {
	svc := &stubService{report: &billing.SyncReport{Kind: "plans", Total: 2, Created: 2}}

	w, env := serve(svc, http.MethodPost, "/orgs/gjj/billing/sync/plans")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestSyncPartialFailureReturnsReport(t *testing.T) {
	report := &billing.SyncReport{Kind: "users", Total: 2, Created: 1, Failed: 1}
	svc := &stubService{report: report, syncErr: errors.Join(errors.New("1 of 2 users failed"), xerrors.ErrExternalSystem)}

	w, env := serve(svc, http.MethodPost, "/orgs/gjj/billing/sync/users")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Error != xerrors.ErrExternalSystem.Error() {
		t.Errorf("error = %q", env.Error)
	}

	var got billing.SyncReport
	if err := json.Unmarshal(env.Data, &got); err != nil || got.Failed != 1 {
		t.Errorf("report = %+v err = %v", got, err)
	}
}

func TestSyncBillingDisabled(t *testing.T) {
	svc := &stubService{report: &billing.SyncReport{}, syncErr: xerrors.ErrBillingDisabled}

	w, _ := serve(svc, http.MethodPost, "/orgs/gjj/billing/sync/plans")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListAcquirersExternalFailureIsMasked(t *testing.T) {
	svc := &stubService{acqErr: xerrors.External("odoo object.execute_kw", errors.New("dial tcp 10.0.0.7:8069: connection refused"))}

	w, env := serve(svc, http.MethodGet, "/orgs/gjj/billing/acquirers")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Error != xerrors.ErrExternalSystem.Error() {
		t.Errorf("cause leaked to caller: %q", env.Error)
	}
}

func TestPaymentSummary(t *testing.T) {
	w, env := serve(&stubService{}, http.MethodGet, "/orgs/gjj/billing/payments/summary")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestLegacyOdooSyncIsGone(t *testing.T) {
	w, env := serve(&stubService{}, http.MethodPost, "/orgs/gjj/billing/odoo/sync")
	if w.Code != http.StatusGone {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Error == "" {
		t.Error("missing error message")
	}
}
