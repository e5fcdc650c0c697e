package accounts

import (
	"context"
	"testing"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubAccountsRepo struct {
	accounts map[string]*Account
	byLogin  map[string]*Account
	deleted  []string
}

func newStubAccountsRepo() *stubAccountsRepo {
	return &stubAccountsRepo{
		accounts: map[string]*Account{},
		byLogin:  map[string]*Account{},
	}
}

func (s *stubAccountsRepo) Create(_ context.Context, account *Account) error {
	if _, ok := s.byLogin[account.Login]; ok {
		return ErrLoginTaken
	}
	s.accounts[account.ID] = account
	s.byLogin[account.Login] = account
	return nil
}

func (s *stubAccountsRepo) FindByID(_ context.Context, id string) (*Account, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return nil, ErrNotFound
}

func (s *stubAccountsRepo) FindByLogin(_ context.Context, login string) (*Account, error) {
	if account, ok := s.byLogin[login]; ok {
		return account, nil
	}
	return nil, ErrNotFound
}

func (s *stubAccountsRepo) FindStudent(_ context.Context, schoolID, studentID string) (*Account, error) {
	account, ok := s.accounts[studentID]
	if !ok || account.SchoolID != schoolID || account.Role != auth.RoleStudent {
		return nil, ErrNotFound
	}
	return account, nil
}

func (s *stubAccountsRepo) ListStudents(_ context.Context, schoolID string) ([]Student, error) {
	var out []Student
	for _, account := range s.accounts {
		if account.SchoolID == schoolID && account.Role == auth.RoleStudent {
			out = append(out, Student{ID: account.ID, Name: account.DisplayName})
		}
	}
	return out, nil
}

func (s *stubAccountsRepo) CountStudents(ctx context.Context, schoolID string) (int64, error) {
	students, _ := s.ListStudents(ctx, schoolID)
	return int64(len(students)), nil
}

func (s *stubAccountsRepo) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	account, err := s.FindStudent(ctx, schoolID, studentID)
	if err != nil {
		return err
	}
	delete(s.byLogin, account.Login)
	delete(s.accounts, account.ID)
	s.deleted = append(s.deleted, studentID)
	return nil
}

type stubSchoolDirectory struct {
	ids map[string]bool
}

func (s stubSchoolDirectory) Create(context.Context, *schools.School) error { return nil }
func (s stubSchoolDirectory) FindByID(_ context.Context, id string) (*schools.School, error) {
	if s.ids[id] {
		return &schools.School{ID: id, Name: "School"}, nil
	}
	return nil, schools.ErrNotFound
}
func (s stubSchoolDirectory) FindByName(context.Context, string) (*schools.School, error) {
	return nil, schools.ErrNotFound
}
func (s stubSchoolDirectory) List(context.Context) ([]schools.School, error) { return nil, nil }
func (s stubSchoolDirectory) Rename(context.Context, string, string) error  { return nil }
func (s stubSchoolDirectory) Count(context.Context) (int64, error)          { return 0, nil }

func newTestService(repo *stubAccountsRepo, schoolIDs ...string) *Service {
	ids := map[string]bool{}
	for _, id := range schoolIDs {
		ids[id] = true
	}
	return NewService(repo, stubSchoolDirectory{ids: ids}, zerolog.Nop())
}

func TestCreateStudent(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(repo, "school-1")

	account, err := svc.CreateStudent(context.Background(), CreateStudentParams{
		SchoolID: "school-1",
		Name:     "Aruzhan",
	})
	require.NoError(t, err)
	require.Equal(t, auth.RoleStudent, account.Role)
	require.Equal(t, "school-1", account.SchoolID)
	require.Equal(t, "Aruzhan", account.Login)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(DefaultStudentPassword)))
}

func TestCreateStudentUnknownSchool(t *testing.T) {
	svc := newTestService(newStubAccountsRepo(), "school-1")

	_, err := svc.CreateStudent(context.Background(), CreateStudentParams{
		SchoolID: "school-2",
		Name:     "Aruzhan",
	})
	require.ErrorIs(t, err, ErrInvalidSchool)
}

func TestCreateStudentBlankFields(t *testing.T) {
	svc := newTestService(newStubAccountsRepo(), "school-1")

	_, err := svc.CreateStudent(context.Background(), CreateStudentParams{SchoolID: " ", Name: "Aruzhan"})
	require.ErrorIs(t, err, ErrInvalidSchool)

	_, err = svc.CreateStudent(context.Background(), CreateStudentParams{SchoolID: "school-1", Name: ""})
	var filterErr schools.FilterError
	require.ErrorAs(t, err, &filterErr)
}

func TestDeleteStudentCrossTenant(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(repo, "school-1", "school-2")

	account, err := svc.CreateStudent(context.Background(), CreateStudentParams{
		SchoolID: "school-2",
		Name:     "Dias",
	})
	require.NoError(t, err)

	err = svc.DeleteStudent(context.Background(), "school-1", account.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, repo.deleted)

	require.NoError(t, svc.DeleteStudent(context.Background(), "school-2", account.ID))
	require.Equal(t, []string{account.ID}, repo.deleted)
}

func TestAuthenticate(t *testing.T) {
	repo := newStubAccountsRepo()
	svc := newTestService(repo, "school-1")

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &Account{
		ID:           "admin-1",
		SchoolID:     "school-1",
		DisplayName:  "Admin",
		Role:         auth.RoleAdmin,
		Login:        "admin",
		PasswordHash: string(hash),
	}
	require.NoError(t, repo.Create(context.Background(), admin))

	account, err := svc.Authenticate(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "admin-1", account.ID)

	_, err = svc.Authenticate(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
