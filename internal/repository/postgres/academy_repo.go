// internal/repository/postgres/academy_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"academy-service/internal/domain/academy"
	xerrors "academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AcademyRepository struct {
	db *pgxpool.Pool
}

func NewAcademyRepository(db *pgxpool.Pool) *AcademyRepository {
	return &AcademyRepository{db: db}
}

const academyColumns = `
	id, slug, name, type,
	odoo_enabled, COALESCE(odoo_api_key, ''), COALESCE(odoo_secret, ''),
	COALESCE(logo_url, ''), COALESCE(primary_color, ''),
	created_at, updated_at`

func scanAcademy(row pgx.Row) (*academy.Academy, error) {
	var a academy.Academy
	err := row.Scan(
		&a.ID, &a.Slug, &a.Name, &a.Type,
		&a.Billing.Enabled, &a.Billing.APIKey, &a.Billing.Secret,
		&a.LogoURL, &a.PrimaryColor,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindBySlug retrieves an academy by its URL slug
func (r *AcademyRepository) FindBySlug(ctx context.Context, slug string) (*academy.Academy, error) {
	query := `SELECT ` + academyColumns + ` FROM academies WHERE slug = $1`

	a, err := scanAcademy(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find academy: %w", err)
	}
	return a, nil
}

