package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for password hashing.
const BcryptCost = 12

// DefaultStudentPassword seeds new student accounts. Students never log in
// through the API today; the credential exists so the account row is
// complete.
const DefaultStudentPassword = "default_password"

var ErrInvalidSchool = errors.New("invalid school id")

type Service struct {
	repo    Repository
	schools schools.Repository
	logger  zerolog.Logger
}

func NewService(repo Repository, schoolsRepo schools.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		schools: schoolsRepo,
		logger:  logger.With().Str("component", "accounts").Logger(),
	}
}

type CreateStudentParams struct {
	SchoolID string
	Name     string
}

// CreateStudent registers a STUDENT account under the given school. The
// student's name doubles as the login, matching how the intake pipeline
// provisions accounts.
func (s *Service) CreateStudent(ctx context.Context, params CreateStudentParams) (*Account, error) {
	schoolID := strings.TrimSpace(params.SchoolID)
	if schoolID == "" {
		return nil, ErrInvalidSchool
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, schools.FilterError{Field: "student_name", Message: "required"}
	}

	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, schools.ErrNotFound) {
			return nil, ErrInvalidSchool
		}
		return nil, fmt.Errorf("resolve school: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultStudentPassword), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.NewString(),
		SchoolID:     schoolID,
		DisplayName:  name,
		Role:         auth.RoleStudent,
		Login:        name,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info().Str("school_id", schoolID).Str("student_id", account.ID).Msg("student created")
	return account, nil
}

func (s *Service) ListStudents(ctx context.Context, schoolID string) ([]Student, error) {
	return s.repo.ListStudents(ctx, schoolID)
}

func (s *Service) CountStudents(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.CountStudents(ctx, schoolID)
}

// DeleteStudent removes a student and its dependent rows. The repository
// guarantees atomicity; a cross-tenant or missing student surfaces as
// ErrNotFound before anything is touched.
func (s *Service) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	if err := s.repo.DeleteStudent(ctx, schoolID, studentID); err != nil {
		return err
	}
	s.logger.Info().Str("school_id", schoolID).Str("student_id", studentID).Msg("student deleted")
	return nil
}

// Authenticate resolves a login/password pair to an account. Both an
// unknown login and a wrong password return ErrInvalidCredentials so the
// response does not reveal which half failed.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*Account, error) {
	account, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

var ErrInvalidCredentials = errors.New("invalid credentials")
