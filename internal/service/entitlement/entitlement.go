// internal/service/entitlement/entitlement.go
package entitlement

import (
	"context"
	"fmt"
	"time"

	"academy-service/internal/domain/membership"
	xerrors "academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type MembershipLister interface {
	ListByUser(ctx context.Context, userID int64) ([]membership.Membership, error)
}

type Service struct {
	users       UserChecker
	memberships MembershipLister
	logger      *zap.Logger
}

func NewService(users UserChecker, memberships MembershipLister, logger *zap.Logger) *Service {
	return &Service{
		users:       users,
		memberships: memberships,
		logger:      logger,
	}
}

// GetActiveMembership returns the membership granting access to userID at now,
// or nil when there is none. When several qualify the latest start date wins,
// then the highest ID.
func (s *Service) GetActiveMembership(ctx context.Context, userID int64, now time.Time) (*membership.Membership, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, xerrors.ErrNotFound)
	}

	list, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}

	var active *membership.Membership
	qualifying := 0
	for i := range list {
		m := &list[i]
		if !m.IsActiveAt(now) {
			continue
		}
		qualifying++
		if active == nil || preferred(m, active) {
			active = m
		}
	}

	if qualifying > 1 {
		s.logger.Warn("user has overlapping active memberships",
			zap.Int64("user_id", userID),
			zap.Int("count", qualifying),
			zap.Int64("chosen_membership_id", active.ID),
		)
	}

	return active, nil
}

func preferred(a, b *membership.Membership) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.ID > b.ID
}

// Resolve derives the entitlement view consumed by route guards.
func (s *Service) Resolve(ctx context.Context, userID int64, now time.Time) (*membership.Entitlement, error) {
	m, err := s.GetActiveMembership(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	e := &membership.Entitlement{
		UserID: userID,
		AsOf:   now,
		Status: membership.EntitlementNone,
	}
	if m == nil {
		return e, nil
	}

	e.HasActivePlan = true
	e.Membership = m
	e.ExpiresAt = m.EndDate
	if m.Status == membership.StatusTrial {
		e.Status = membership.EntitlementTrial
	} else {
		e.Status = membership.EntitlementActive
	}

	return e, nil
}
