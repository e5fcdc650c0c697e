package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrLoginTaken = errors.New("login already taken")
)

// Account is a user record. Logins are unique across all schools, not per
// tenant.
type Account struct {
	ID           string
	SchoolID     string
	DisplayName  string
	Role         auth.Role
	Login        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Student is the listing view exposed to staff: no login, no hash.
type Student struct {
	ID   string
	Name string
}

type Repository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByLogin(ctx context.Context, login string) (*Account, error)

	// FindStudent resolves a student within a school. A student that exists
	// under another school is reported as ErrNotFound, never as a
	// permission error.
	FindStudent(ctx context.Context, schoolID, studentID string) (*Account, error)
	ListStudents(ctx context.Context, schoolID string) ([]Student, error)
	CountStudents(ctx context.Context, schoolID string) (int64, error)

	// DeleteStudent removes the student row together with its face
	// encodings and subscriptions in a single transaction. Partial deletes
	// must not survive a failure.
	DeleteStudent(ctx context.Context, schoolID, studentID string) error
}
