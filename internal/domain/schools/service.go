package schools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new school. Names are unique across the whole store,
// not per tenant.
func (s *Service) Create(ctx context.Context, name string) (*School, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, FilterError{Field: "org_name", Message: "required"}
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check school name: %w", err)
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	school := &School{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, fmt.Errorf("create school: %w", err)
	}
	return school, nil
}

func (s *Service) List(ctx context.Context) ([]School, error) {
	return s.repo.List(ctx)
}

// Rename updates a school's name, keeping the current one when the new name
// is empty (the original update endpoint behaved this way).
func (s *Service) Rename(ctx context.Context, id string, name string) error {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = school.Name
	}
	return s.repo.Rename(ctx, school.ID, name)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
