// internal/service/kpi/kpi.go
package kpi

import (
	"context"
	"fmt"

	"academy-service/internal/domain/kpi"
	xerrors "academy-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Calculator interface {
	Aggregate(ctx context.Context, academyID int64, month kpi.Month) (*kpi.Metrics, error)
}

type Cache interface {
	Get(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error)
	Set(ctx context.Context, academyID int64, month string, m *kpi.Metrics) error
	Delete(ctx context.Context, academyID int64, month string) error
}

// Service serves dashboard KPIs through a read-through cache. Concurrent
// misses may recompute the same month; the result is deterministic so the
// last write is as good as any other.
type Service struct {
	calc   Calculator
	cache  Cache
	logger *zap.Logger
}

func NewService(calc Calculator, cache Cache, logger *zap.Logger) *Service {
	return &Service{calc: calc, cache: cache, logger: logger}
}

func parseMonth(month string) (kpi.Month, error) {
	m, err := kpi.ParseMonth(month)
	if err != nil {
		return kpi.Month{}, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}
	return m, nil
}

// CalculateKPIs recomputes the metrics of a month from the store
func (s *Service) CalculateKPIs(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	metrics, err := s.calc.Aggregate(ctx, academyID, m)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate kpis: %w", err)
	}
	return metrics, nil
}

func (s *Service) CacheKPIs(ctx context.Context, academyID int64, month string, metrics *kpi.Metrics) error {
	return s.cache.Set(ctx, academyID, month, metrics)
}

// GetCachedKPIs returns nil when the month is not cached
func (s *Service) GetCachedKPIs(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error) {
	return s.cache.Get(ctx, academyID, month)
}

// GetKPIs serves from cache and recomputes synchronously on a miss. Cache
// failures degrade to recomputation instead of failing the request.
func (s *Service) GetKPIs(ctx context.Context, academyID int64, month string) (*kpi.Metrics, error) {
	if _, err := parseMonth(month); err != nil {
		return nil, err
	}

	cached, err := s.GetCachedKPIs(ctx, academyID, month)
	if err != nil {
		s.logger.Warn("kpi cache read failed", zap.Int64("academy_id", academyID), zap.String("month", month), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	metrics, err := s.CalculateKPIs(ctx, academyID, month)
	if err != nil {
		return nil, err
	}

	if err := s.CacheKPIs(ctx, academyID, month, metrics); err != nil {
		s.logger.Warn("kpi cache write failed", zap.Int64("academy_id", academyID), zap.String("month", month), zap.Error(err))
	}

	s.logger.Info("kpis recalculated",
		zap.Int64("academy_id", academyID),
		zap.String("month", month),
		zap.Int64("active_members", metrics.ActiveMembers),
	)

	return metrics, nil
}

// Invalidate drops a cached month so the next read recomputes it
func (s *Service) Invalidate(ctx context.Context, academyID int64, month string) error {
	if _, err := parseMonth(month); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, academyID, month); err != nil {
		return fmt.Errorf("failed to invalidate kpis: %w", err)
	}
	return nil
}
