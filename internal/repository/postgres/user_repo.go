// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"academy-service/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, COALESCE(name, ''), role, academy_id, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.AcademyID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Exists checks whether a user with the given ID exists
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListByAcademy retrieves every user of an academy ordered by ID
func (r *UserRepository) ListByAcademy(ctx context.Context, academyID int64) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE academy_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, academyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectUsers(rows)
}

// FindByNamesWithTx retrieves academy users whose name matches one of names (case-insensitive)
func (r *UserRepository) FindByNamesWithTx(ctx context.Context, tx pgx.Tx, academyID int64, names []string) ([]user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE academy_id = $1 AND LOWER(name) = ANY($2)
		ORDER BY id
	`

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(strings.TrimSpace(n))
	}

	rows, err := tx.Query(ctx, query, academyID, pq.Array(lowered))
	if err != nil {
		return nil, fmt.Errorf("failed to find users by name: %w", err)
	}
	return collectUsers(rows)
}

// SuperAdminExists checks whether any platform super admin exists
func (r *UserRepository) SuperAdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE role = $1 AND academy_id IS NULL)`,
		user.RoleSuperAdmin,
	).Scan(&exists)
	return exists, err
}

// ExistsByEmail checks whether the email is already taken
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	return exists, err
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, name, role, academy_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, u.Email, u.Name, u.Role, u.AcademyID, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
