// internal/service/billing/reconciliation.go
package billing

import (
	"context"
	"fmt"
	"time"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/billing"
	"academy-service/internal/domain/membership"
	"academy-service/internal/domain/payment"
	"academy-service/internal/domain/user"
	xerrors "academy-service/internal/pkg/errors"
	"academy-service/internal/pkg/odoo"

	"go.uber.org/zap"
)

const (
	productModel = "product.template"
	partnerModel = "res.partner"
)

type PlanLister interface {
	ListByAcademy(ctx context.Context, academyID int64) ([]membership.Plan, error)
}

type UserLister interface {
	ListByAcademy(ctx context.Context, academyID int64) ([]user.User, error)
}

type PaymentLister interface {
	ListByAcademy(ctx context.Context, academyID int64) ([]payment.Payment, error)
}

type Connector interface {
	Connect(ctx context.Context, login, secret string) (odoo.Session, error)
}

// Locker keeps two sync runs of the same academy and kind from racing each
// other into duplicate remote records.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, ok bool, err error)
}

const syncLockTTL = 10 * time.Minute

type Service struct {
	plans         PlanLister
	users         UserLister
	payments      PaymentLister
	odoo          Connector
	providerModel string
	staleAfter    time.Duration
	locker        Locker
	logger        *zap.Logger
}

func NewService(
	plans PlanLister,
	users UserLister,
	payments PaymentLister,
	connector Connector,
	providerModel string,
	staleAfter time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		plans:         plans,
		users:         users,
		payments:      payments,
		odoo:          connector,
		providerModel: providerModel,
		staleAfter:    staleAfter,
		logger:        logger,
	}
}

// WithLocker enables per-academy sync locking.
func (s *Service) WithLocker(l Locker) *Service {
	s.locker = l
	return s
}

// PlanRef is the external key of a plan in the billing catalog.
func PlanRef(academyID, planID int64) string {
	return fmt.Sprintf("academy-%d-plan-%d", academyID, planID)
}

// UserRef is the external key of a user among billing contacts.
func UserRef(academyID, userID int64) string {
	return fmt.Sprintf("academy-%d-user-%d", academyID, userID)
}

func (s *Service) connect(ctx context.Context, a *academy.Academy) (odoo.Session, error) {
	if !a.BillingReady() {
		return nil, xerrors.ErrBillingDisabled
	}
	sess, err := s.odoo.Connect(ctx, a.Billing.APIKey, a.Billing.Secret)
	if err != nil {
		s.logger.Error("billing system authentication failed", zap.Int64("academy_id", a.ID), zap.Error(err))
		return nil, err
	}
	return sess, nil
}

// upsert looks the record up by its stable key, archived ones included, and
// writes it in place or creates it.
func upsert(ctx context.Context, sess odoo.Session, model, keyField, ref string, values map[string]any) (billing.SyncOutcome, error) {
	outcome := billing.SyncOutcome{Ref: ref}

	var existing []struct {
		ID int64 `json:"id"`
	}
	domain := []any{
		[]any{keyField, "=", ref},
		[]any{"active", "in", []any{true, false}},
	}
	if err := sess.SearchRead(ctx, model, domain, []string{"id"}, 1, &existing); err != nil {
		return outcome, err
	}

	if len(existing) > 0 {
		outcome.RemoteID = existing[0].ID
		if err := sess.Write(ctx, model, []int64{outcome.RemoteID}, values); err != nil {
			return outcome, err
		}
		outcome.Action = billing.ActionUpdated
		return outcome, nil
	}

	id, err := sess.Create(ctx, model, values)
	if err != nil {
		return outcome, err
	}
	outcome.RemoteID = id
	outcome.Action = billing.ActionCreated
	return outcome, nil
}

type syncItem struct {
	localID int64
	ref     string
	values  map[string]any
}

func (s *Service) syncAll(ctx context.Context, a *academy.Academy, kind, model, keyField string, items []syncItem) (*billing.SyncReport, error) {
	report := &billing.SyncReport{Kind: kind, Outcomes: []billing.SyncOutcome{}}

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, fmt.Sprintf("billing-sync:%d:%s", a.ID, kind), syncLockTTL)
		if err != nil {
			return report, err
		}
		if !ok {
			return report, fmt.Errorf("%s sync already running for academy %d: %w", kind, a.ID, xerrors.ErrConflict)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release sync lock", zap.Int64("academy_id", a.ID), zap.Error(err))
			}
		}()
	}

	sess, err := s.connect(ctx, a)
	if err != nil {
		return report, err
	}

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := upsert(ctx, sess, model, keyField, it.ref, it.values)
		outcome.LocalID = it.localID
		if err != nil {
			outcome.Action = billing.ActionFailed
			outcome.Error = err.Error()
			s.logger.Warn("billing sync record failed",
				zap.String("kind", kind),
				zap.Int64("academy_id", a.ID),
				zap.String("ref", it.ref),
				zap.Error(err),
			)
		}
		report.Add(outcome)
	}

	s.logger.Info("billing sync finished",
		zap.String("kind", kind),
		zap.Int64("academy_id", a.ID),
		zap.Int("total", report.Total),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d %s failed to sync: %w", report.Failed, report.Total, kind, xerrors.ErrExternalSystem)
	}
	return report, nil
}

// SyncAllPlans mirrors every plan of the academy into the billing catalog.
// Each plan is processed independently; the report lists every outcome.
func (s *Service) SyncAllPlans(ctx context.Context, a *academy.Academy) (*billing.SyncReport, error) {
	plans, err := s.plans.ListByAcademy(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	items := make([]syncItem, 0, len(plans))
	for _, p := range plans {
		ref := PlanRef(a.ID, p.ID)
		items = append(items, syncItem{
			localID: p.ID,
			ref:     ref,
			values: map[string]any{
				"name":         p.Name,
				"default_code": ref,
				"list_price":   p.Price,
				"type":         "service",
				"sale_ok":      true,
				"active":       p.Status == membership.PlanStatusActive,
			},
		})
	}

	return s.syncAll(ctx, a, "plans", productModel, "default_code", items)
}

// SyncAllUsers mirrors every user of the academy into billing contacts.
func (s *Service) SyncAllUsers(ctx context.Context, a *academy.Academy) (*billing.SyncReport, error) {
	users, err := s.users.ListByAcademy(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	items := make([]syncItem, 0, len(users))
	for _, u := range users {
		ref := UserRef(a.ID, u.ID)
		name := u.Name
		if name == "" {
			name = u.Email
		}
		items = append(items, syncItem{
			localID: u.ID,
			ref:     ref,
			values: map[string]any{
				"name":  name,
				"email": u.Email,
				"ref":   ref,
			},
		})
	}

	return s.syncAll(ctx, a, "users", partnerModel, "ref", items)
}

// ListActiveAcquirers returns the payment methods enabled for checkout. Remote
// failures match xerrors.ErrExternalSystem.
func (s *Service) ListActiveAcquirers(ctx context.Context, a *academy.Academy) ([]billing.Acquirer, error) {
	sess, err := s.connect(ctx, a)
	if err != nil {
		return nil, err
	}

	// payment.acquirer (Odoo <= 15) names the technical code "provider"
	codeField := "code"
	if s.providerModel == "payment.acquirer" {
		codeField = "provider"
	}

	var rows []map[string]any
	domain := []any{[]any{"state", "in", []any{"enabled", "test"}}}
	if err := sess.SearchRead(ctx, s.providerModel, domain, []string{"id", "name", codeField, "state"}, 0, &rows); err != nil {
		s.logger.Error("failed to list acquirers", zap.Int64("academy_id", a.ID), zap.Error(err))
		return nil, err
	}

	acquirers := make([]billing.Acquirer, 0, len(rows))
	for _, r := range rows {
		acquirers = append(acquirers, billing.Acquirer{
			ID:    toInt64(r["id"]),
			Name:  toString(r["name"]),
			Code:  toString(r[codeField]),
			State: toString(r["state"]),
		})
	}
	return acquirers, nil
}

// PaymentSummary classifies every payment of the academy by lifecycle state.
func (s *Service) PaymentSummary(ctx context.Context, academyID int64, now time.Time) (*payment.LifecycleSummary, error) {
	payments, err := s.payments.ListByAcademy(ctx, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	summary := &payment.LifecycleSummary{
		AcademyID: academyID,
		AsOf:      now,
		Buckets:   map[payment.Lifecycle]payment.LifecycleBucket{},
	}
	for i := range payments {
		state := payment.Classify(&payments[i], now, s.staleAfter)
		b := summary.Buckets[state]
		b.Count++
		b.Amount += payments[i].Amount
		summary.Buckets[state] = b
		summary.Total++
	}

	if stale := summary.Buckets[payment.LifecycleStale].Count; stale > 0 {
		s.logger.Info("stale pending payments found", zap.Int64("academy_id", academyID), zap.Int64("count", stale))
	}

	return summary, nil
}

func toInt64(v any) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return 0
}

// Odoo returns false for empty char fields
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
