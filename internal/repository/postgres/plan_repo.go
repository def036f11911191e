// internal/repository/postgres/plan_repo.go
package postgres

import (
	"context"
	"fmt"

	"academy-service/internal/domain/membership"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, academy_id, name, price, currency, status, created_at, updated_at`

// ListByAcademy retrieves every plan of an academy regardless of status
func (r *PlanRepository) ListByAcademy(ctx context.Context, academyID int64) ([]membership.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE academy_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []membership.Plan{}
	for rows.Next() {
		var p membership.Plan
		if err := rows.Scan(
			&p.ID, &p.AcademyID, &p.Name, &p.Price, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

