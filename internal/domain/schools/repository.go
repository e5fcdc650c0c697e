package schools

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("school not found")
	ErrNameTaken = errors.New("school name already taken")
)

// School is the tenant root. Every account, event, and encoding belongs to
// exactly one school.
type School struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, school *School) error
	FindByID(ctx context.Context, id string) (*School, error)
	FindByName(ctx context.Context, name string) (*School, error)
	List(ctx context.Context) ([]School, error)
	Rename(ctx context.Context, id string, name string) error
	Count(ctx context.Context) (int64, error)
}
