package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/middleware"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
)

const testEnv = "test"

func authedRequest(method, target string, body io.Reader, account *accounts.Account) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if account != nil {
		req = req.WithContext(middleware.ContextWithAccount(req.Context(), account))
	}
	return req
}

type memSchools struct {
	byID map[string]*schools.School
}

func newMemSchools(all ...*schools.School) *memSchools {
	m := &memSchools{byID: make(map[string]*schools.School)}
	for _, s := range all {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memSchools) Create(_ context.Context, school *schools.School) error {
	m.byID[school.ID] = school
	return nil
}

func (m *memSchools) FindByID(_ context.Context, id string) (*schools.School, error) {
	if school, ok := m.byID[id]; ok {
		return school, nil
	}
	return nil, schools.ErrNotFound
}

func (m *memSchools) FindByName(_ context.Context, name string) (*schools.School, error) {
	for _, school := range m.byID {
		if school.Name == name {
			return school, nil
		}
	}
	return nil, schools.ErrNotFound
}

func (m *memSchools) List(_ context.Context) ([]schools.School, error) {
	out := make([]schools.School, 0, len(m.byID))
	for _, school := range m.byID {
		out = append(out, *school)
	}
	return out, nil
}

func (m *memSchools) Rename(_ context.Context, id string, name string) error {
	school, ok := m.byID[id]
	if !ok {
		return schools.ErrNotFound
	}
	school.Name = name
	return nil
}

func (m *memSchools) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

type memAccounts struct {
	byID    map[string]*accounts.Account
	deleted []string
}

func newMemAccounts(all ...*accounts.Account) *memAccounts {
	m := &memAccounts{byID: make(map[string]*accounts.Account)}
	for _, a := range all {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memAccounts) Create(_ context.Context, account *accounts.Account) error {
	for _, existing := range m.byID {
		if existing.Login == account.Login {
			return accounts.ErrLoginTaken
		}
	}
	m.byID[account.ID] = account
	return nil
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*accounts.Account, error) {
	if account, ok := m.byID[id]; ok {
		return account, nil
	}
	return nil, accounts.ErrNotFound
}

func (m *memAccounts) FindByLogin(_ context.Context, login string) (*accounts.Account, error) {
	for _, account := range m.byID {
		if account.Login == login {
			return account, nil
		}
	}
	return nil, accounts.ErrNotFound
}

func (m *memAccounts) FindStudent(_ context.Context, schoolID, studentID string) (*accounts.Account, error) {
	account, ok := m.byID[studentID]
	if !ok || account.SchoolID != schoolID || account.Role != "STUDENT" {
		return nil, accounts.ErrNotFound
	}
	return account, nil
}

func (m *memAccounts) ListStudents(_ context.Context, schoolID string) ([]accounts.Student, error) {
	out := make([]accounts.Student, 0)
	for _, account := range m.byID {
		if account.SchoolID == schoolID && account.Role == "STUDENT" {
			out = append(out, accounts.Student{ID: account.ID, Name: account.DisplayName})
		}
	}
	return out, nil
}

func (m *memAccounts) CountStudents(ctx context.Context, schoolID string) (int64, error) {
	students, _ := m.ListStudents(ctx, schoolID)
	return int64(len(students)), nil
}

func (m *memAccounts) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	if _, err := m.FindStudent(ctx, schoolID, studentID); err != nil {
		return err
	}
	delete(m.byID, studentID)
	m.deleted = append(m.deleted, studentID)
	return nil
}

type memEvents struct {
	events []events.Event
	names  map[string]string
}

func (m *memEvents) Insert(_ context.Context, event *events.Event) error {
	m.events = append(m.events, *event)
	return nil
}

func (m *memEvents) ListViews(_ context.Context, schoolID string, types ...events.EventType) ([]events.View, error) {
	wanted := make(map[events.EventType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	out := make([]events.View, 0)
	for _, event := range m.events {
		if event.SchoolID != schoolID {
			continue
		}
		if len(types) > 0 && !wanted[event.Type] {
			continue
		}
		out = append(out, events.View{
			EventID:     event.ID,
			Timestamp:   event.Timestamp,
			Type:        event.Type,
			CameraID:    event.CameraID,
			StudentName: m.names[event.StudentID],
		})
	}
	return out, nil
}

func (m *memEvents) Count(_ context.Context, schoolID string) (int64, error) {
	var n int64
	for _, event := range m.events {
		if event.SchoolID == schoolID {
			n++
		}
	}
	return n, nil
}

func (m *memEvents) ListBetween(_ context.Context, schoolID string, from, to time.Time) ([]events.Event, error) {
	out := make([]events.Event, 0)
	for _, event := range m.events {
		if event.SchoolID != schoolID {
			continue
		}
		if event.Timestamp.Before(from) || event.Timestamp.After(to) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

type memFaces struct {
	encodings []faces.Encoding
	owners    map[string]string // userID -> display name
	school    map[string]string // userID -> school
}

func (m *memFaces) Add(_ context.Context, encoding *faces.Encoding) error {
	m.encodings = append(m.encodings, *encoding)
	return nil
}

func (m *memFaces) ListUserNames(_ context.Context, schoolID string) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, encoding := range m.encodings {
		if m.school[encoding.UserID] != schoolID {
			continue
		}
		name := m.owners[encoding.UserID]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

type memSchedules struct {
	bySchool map[string]*schedules.Schedule
}

func (m *memSchedules) FindBySchool(_ context.Context, schoolID string) (*schedules.Schedule, error) {
	if m.bySchool == nil {
		return nil, schedules.ErrNotFound
	}
	if schedule, ok := m.bySchool[schoolID]; ok {
		return schedule, nil
	}
	return nil, schedules.ErrNotFound
}

func (m *memSchedules) Upsert(_ context.Context, schedule *schedules.Schedule) error {
	if m.bySchool == nil {
		m.bySchool = make(map[string]*schedules.Schedule)
	}
	m.bySchool[schedule.SchoolID] = schedule
	return nil
}
