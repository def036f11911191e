package entitlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/membership"
	"academy-service/internal/domain/user"
	"academy-service/internal/middleware"
	xerrors "academy-service/internal/pkg/errors"
	"academy-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

type stubResolver map[int64]bool

func (s stubResolver) Resolve(_ context.Context, userID int64, now time.Time) (*membership.Entitlement, error) {
	active, ok := s[userID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	ent := &membership.Entitlement{UserID: userID, AsOf: now, Status: membership.EntitlementNone}
	if active {
		ent.HasActivePlan = true
		ent.Status = membership.EntitlementActive
	}
	return ent, nil
}

func serve(userID int64, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	h := NewEntitlementHandler(stubResolver{1: true, 2: false})
	academyID := int64(7)

	r := gin.New()
	g := r.Group("/orgs/:slug", func(c *gin.Context) {
		middleware.SetSession(c, &session.Session{UserID: userID, Role: user.RoleStudent, AcademyID: &academyID})
		middleware.SetAcademy(c, &academy.Academy{ID: academyID, Slug: c.Param("slug")})
	})
	g.GET("/me/entitlement", h.GetMyEntitlement)
	g.GET("/access", h.CheckAccess)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decision(t *testing.T, w *httptest.ResponseRecorder) accessResult {
	t.Helper()
	var env struct {
		Data accessResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	return env.Data
}

func TestGetMyEntitlement(t *testing.T) {
	w := serve(1, "/orgs/global-jiu-jitsu/me/entitlement")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w = serve(99, "/orgs/global-jiu-jitsu/me/entitlement")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user status = %d", w.Code)
	}
}

func TestCheckAccessRedirectsWithoutPlan(t *testing.T) {
	w := serve(2, "/orgs/global-jiu-jitsu/access?path=/global-jiu-jitsu/app/calendar")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	d := decision(t, w)
	if d.Allowed || d.RedirectTo != "/global-jiu-jitsu/app" {
		t.Errorf("decision = %+v", d)
	}
}

func TestCheckAccessAllowsBillingWithoutPlan(t *testing.T) {
	d := decision(t, serve(2, "/orgs/global-jiu-jitsu/access?path=/global-jiu-jitsu/app/billing/invoices"))
	if !d.Allowed {
		t.Errorf("decision = %+v", d)
	}
}

func TestCheckAccessWithPlan(t *testing.T) {
	d := decision(t, serve(1, "/orgs/global-jiu-jitsu/access?path=/global-jiu-jitsu/app/calendar"))
	if !d.Allowed || !d.HasActivePlan {
		t.Errorf("decision = %+v", d)
	}
}

func TestCheckAccessRequiresPath(t *testing.T) {
	w := serve(1, "/orgs/global-jiu-jitsu/access")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
