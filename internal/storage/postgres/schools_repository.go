package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ schools.Repository = (*SchoolRepository)(nil)

func (r *SchoolRepository) Create(ctx context.Context, school *schools.School) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO organization (id, org_name, created_at, updated_at)
VALUES ($1, $2, now(), now())
`, school.ID, school.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schools.ErrNameTaken
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*schools.School, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, org_name, created_at, updated_at FROM organization WHERE id = $1
`, id)
	return scanSchool(row)
}

func (r *SchoolRepository) FindByName(ctx context.Context, name string) (*schools.School, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, org_name, created_at, updated_at FROM organization WHERE org_name = $1
`, name)
	return scanSchool(row)
}

func (r *SchoolRepository) List(ctx context.Context) ([]schools.School, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, org_name, created_at, updated_at FROM organization ORDER BY org_name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	result := make([]schools.School, 0)
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *school)
	}
	return result, rows.Err()
}

func (r *SchoolRepository) Rename(ctx context.Context, id string, name string) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE organization SET org_name = $2, updated_at = now() WHERE id = $1
`, id, name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schools.ErrNameTaken
		}
		return fmt.Errorf("rename organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schools.ErrNotFound
	}
	return nil
}

func (r *SchoolRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.queryer().QueryRow(ctx, `SELECT count(*) FROM organization`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return count, nil
}

func (r *SchoolRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func scanSchool(row pgx.Row) (*schools.School, error) {
	var (
		school    schools.School
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&school.ID, &school.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schools.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	school.CreatedAt = createdAt.Time
	school.UpdatedAt = updatedAt.Time
	return &school, nil
}
