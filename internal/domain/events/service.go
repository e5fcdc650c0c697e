package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo      Repository
	accounts  accounts.Repository
	schedules schedules.Repository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, accountsRepo accounts.Repository, schedulesRepo schedules.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		accounts:  accountsRepo,
		schedules: schedulesRepo,
		logger:    logger.With().Str("component", "events").Logger(),
		now:       time.Now,
	}
}

type CreateParams struct {
	StudentID string
	RawType   string
	Timestamp *time.Time
	CameraID  string
}

// Create records an event for a student of the caller's school. A student
// that is missing or belongs to another school is ErrStudentNotFound; the
// two cases are indistinguishable to the caller.
func (s *Service) Create(ctx context.Context, schoolID string, params CreateParams) (*Event, error) {
	studentID := strings.TrimSpace(params.StudentID)
	if studentID == "" {
		return nil, ErrStudentNotFound
	}

	student, err := s.accounts.FindStudent(ctx, schoolID, studentID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	eventType, err := ParseEventType(params.RawType)
	if err != nil {
		return nil, err
	}

	timestamp := s.now().UTC()
	if params.Timestamp != nil {
		timestamp = params.Timestamp.UTC()
	}

	event := &Event{
		ID:        uuid.NewString(),
		SchoolID:  schoolID,
		StudentID: student.ID,
		Type:      eventType,
		Timestamp: timestamp,
		CameraID:  strings.TrimSpace(params.CameraID),
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.logger.Info().
		Str("school_id", schoolID).
		Str("event_id", event.ID).
		Str("event_type", string(eventType)).
		Msg("event recorded")
	return event, nil
}

var ErrStudentNotFound = errors.New("student not found in this school")

func (s *Service) ListAll(ctx context.Context, schoolID string) ([]View, error) {
	return s.repo.ListViews(ctx, schoolID)
}

func (s *Service) ListEntrance(ctx context.Context, schoolID string) ([]View, error) {
	return s.repo.ListViews(ctx, schoolID, TypeStudentEntrance)
}

func (s *Service) ListExit(ctx context.Context, schoolID string) ([]View, error) {
	return s.repo.ListViews(ctx, schoolID, TypeStudentExit)
}

func (s *Service) ListDanger(ctx context.Context, schoolID string) ([]View, error) {
	return s.repo.ListViews(ctx, schoolID, DangerTypes...)
}

func (s *Service) ListLying(ctx context.Context, schoolID string) ([]View, error) {
	return s.repo.ListViews(ctx, schoolID, TypeLyingMan)
}

// ListIrrelevant returns entrance events recorded strictly after the
// school's scheduled end time, comparing time-of-day only. A school without
// a schedule has no irrelevant events.
func (s *Service) ListIrrelevant(ctx context.Context, schoolID string) ([]View, error) {
	schedule, err := s.schedules.FindBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, schedules.ErrNotFound) {
			return []View{}, nil
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}

	entrances, err := s.repo.ListViews(ctx, schoolID, TypeStudentEntrance)
	if err != nil {
		return nil, err
	}

	cutoff := schedules.SecondsIntoDay(schedule.EndTime)
	late := make([]View, 0, len(entrances))
	for _, view := range entrances {
		if schedules.SecondsIntoDay(view.Timestamp) > cutoff {
			late = append(late, view)
		}
	}
	return late, nil
}

func (s *Service) Count(ctx context.Context, schoolID string) (int64, error) {
	return s.repo.Count(ctx, schoolID)
}

// Weekly builds the 7-bucket weekday histogram over the inclusive window
// [now-6d, now]. The window is evaluated at call time.
func (s *Service) Weekly(ctx context.Context, schoolID string) ([]int, error) {
	from, to := WeeklyWindow(s.now().UTC())
	inWindow, err := s.repo.ListBetween(ctx, schoolID, from, to)
	if err != nil {
		return nil, err
	}
	return WeeklyBuckets(inWindow), nil
}
