// internal/repository/postgres/kpi_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"academy-service/internal/domain/kpi"

	"github.com/jackc/pgx/v5/pgxpool"
)

type KPIRepository struct {
	db *pgxpool.Pool
}

func NewKPIRepository(db *pgxpool.Pool) *KPIRepository {
	return &KPIRepository{db: db}
}

// Aggregate runs the dashboard aggregate queries for one academy and month
func (r *KPIRepository) Aggregate(ctx context.Context, academyID int64, month kpi.Month) (*kpi.Metrics, error) {
	m := &kpi.Metrics{
		AcademyID:    academyID,
		Month:        month.String(),
		CalculatedAt: time.Now().UTC(),
	}

	membersQuery := `
		SELECT
			COUNT(*) FILTER (
				WHERE status IN ('ACTIVE', 'TRIAL')
				  AND start_date < $3
				  AND (end_date IS NULL OR end_date >= $3)
			) AS active_members,
			COUNT(*) FILTER (WHERE start_date >= $2 AND start_date < $3) AS new_members,
			COUNT(*) FILTER (WHERE end_date >= $2 AND end_date < $3) AS churned_members
		FROM memberships
		WHERE academy_id = $1
	`
	if err := r.db.QueryRow(ctx, membersQuery, academyID, month.Start, month.End).Scan(
		&m.ActiveMembers, &m.NewMembers, &m.ChurnedMembers,
	); err != nil {
		return nil, fmt.Errorf("failed to aggregate memberships: %w", err)
	}

	paymentsQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'PAID' AND paid_at >= $2 AND paid_at < $3), 0) AS revenue,
			COUNT(*) FILTER (WHERE status = 'PENDING' AND created_at < $3) AS pending_payments,
			COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING' AND created_at < $3), 0) AS pending_amount
		FROM payments
		WHERE academy_id = $1
	`
	if err := r.db.QueryRow(ctx, paymentsQuery, academyID, month.Start, month.End).Scan(
		&m.Revenue, &m.PendingPayments, &m.PendingAmount,
	); err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM plans WHERE academy_id = $1 AND status = 'ACTIVE'`, academyID,
	).Scan(&m.ActivePlans); err != nil {
		return nil, fmt.Errorf("failed to count active plans: %w", err)
	}

	return m, nil
}
