package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ accounts.Repository = (*AccountRepository)(nil)

const accountColumns = `id, organization_id, user_name, user_role, user_login, password_hash, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account *accounts.Account) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO account (id, organization_id, user_name, user_role, user_login, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
`,
		account.ID,
		account.SchoolID,
		account.DisplayName,
		string(account.Role),
		account.Login,
		account.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return accounts.ErrLoginTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*accounts.Account, error) {
	row := r.queryer().QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE user_login = $1`, login)
	return scanAccount(row)
}

func (r *AccountRepository) FindStudent(ctx context.Context, schoolID, studentID string) (*accounts.Account, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+accountColumns+`
  FROM account
 WHERE id = $1 AND organization_id = $2 AND user_role = $3
`, studentID, schoolID, string(auth.RoleStudent))
	return scanAccount(row)
}

func (r *AccountRepository) ListStudents(ctx context.Context, schoolID string) ([]accounts.Student, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, user_name
  FROM account
 WHERE organization_id = $1 AND user_role = $2
 ORDER BY user_name ASC
`, schoolID, string(auth.RoleStudent))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]accounts.Student, 0)
	for rows.Next() {
		var student accounts.Student
		if err := rows.Scan(&student.ID, &student.Name); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (r *AccountRepository) CountStudents(ctx context.Context, schoolID string) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx, `
SELECT count(*) FROM account WHERE organization_id = $1 AND user_role = $2
`, schoolID, string(auth.RoleStudent)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// DeleteStudent removes the student together with its face encodings and
// subscriptions. The three deletes run through the store's shared WithTx
// helper; a failure at any point leaves the rows untouched.
func (r *AccountRepository) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	return r.store.WithTx(ctx, func(ctx context.Context, txRepo storage.Repository) error {
		bound, ok := txRepo.Accounts().(*AccountRepository)
		if !ok {
			return fmt.Errorf("delete student: unexpected repository type %T", txRepo.Accounts())
		}
		return bound.deleteStudentRows(ctx, schoolID, studentID)
	})
}

func (r *AccountRepository) deleteStudentRows(ctx context.Context, schoolID, studentID string) error {
	q := r.queryer()

	var id string
	err := q.QueryRow(ctx, `
SELECT id FROM account WHERE id = $1 AND organization_id = $2 AND user_role = $3
`, studentID, schoolID, string(auth.RoleStudent)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.ErrNotFound
		}
		return fmt.Errorf("find student: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM face_encoding WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete face encodings: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM subscription WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete subscriptions: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM account WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *AccountRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func scanAccount(row pgx.Row) (*accounts.Account, error) {
	var (
		account   accounts.Account
		role      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&account.ID,
		&account.SchoolID,
		&account.DisplayName,
		&role,
		&account.Login,
		&account.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	account.Role = auth.Role(role)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time
	return &account, nil
}
