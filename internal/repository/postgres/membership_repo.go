// internal/repository/postgres/membership_repo.go
package postgres

import (
	"context"
	"fmt"

	"academy-service/internal/domain/membership"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type MembershipRepository struct {
	db *pgxpool.Pool
}

func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

const membershipColumns = `
	id, user_id, academy_id, plan_id, status, start_date, end_date, created_at, updated_at`

func scanMemberships(rows pgx.Rows) ([]membership.Membership, error) {
	defer rows.Close()

	list := []membership.Membership{}
	for rows.Next() {
		var m membership.Membership
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.AcademyID, &m.PlanID, &m.Status,
			&m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByUser retrieves all memberships of a user in store order (by ID)
func (r *MembershipRepository) ListByUser(ctx context.Context, userID int64) ([]membership.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return scanMemberships(rows)
}

// ListByUsersWithTx retrieves memberships of the given users within an academy
func (r *MembershipRepository) ListByUsersWithTx(ctx context.Context, tx pgx.Tx, academyID int64, userIDs []int64) ([]membership.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE academy_id = $1 AND user_id = ANY($2)
		ORDER BY id
	`

	rows, err := tx.Query(ctx, query, academyID, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return scanMemberships(rows)
}
