// internal/repository/postgres/payment_repo.go
package postgres

import (
	"context"
	"fmt"

	"academy-service/internal/domain/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByAcademy retrieves every payment of an academy
func (r *PaymentRepository) ListByAcademy(ctx context.Context, academyID int64) ([]payment.Payment, error) {
	query := `
		SELECT id, academy_id, membership_id, user_id, amount, currency,
		       status, type, paid_at, created_at, updated_at
		FROM payments
		WHERE academy_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []payment.Payment{}
	for rows.Next() {
		var p payment.Payment
		if err := rows.Scan(
			&p.ID, &p.AcademyID, &p.MembershipID, &p.UserID, &p.Amount, &p.Currency,
			&p.Status, &p.Type, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// DeletePendingByMembershipsWithTx hard-deletes PENDING payments tied to the
// given memberships and returns the user ID of every removed row.
func (r *PaymentRepository) DeletePendingByMembershipsWithTx(ctx context.Context, tx pgx.Tx, membershipIDs []int64) ([]int64, error) {
	query := `
		DELETE FROM payments
		WHERE membership_id = ANY($1) AND status = $2
		RETURNING user_id
	`

	rows, err := tx.Query(ctx, query, pq.Array(membershipIDs), payment.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to delete pending payments: %w", err)
	}
	defer rows.Close()

	userIDs := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted payment: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}
