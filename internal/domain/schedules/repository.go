package schedules

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("schedule not found")

// Schedule is a school's expected attendance window. Only the time-of-day
// component of StartTime and EndTime is meaningful; the date part is
// ignored when comparing against event timestamps.
type Schedule struct {
	ID        string
	SchoolID  string
	StartTime time.Time
	EndTime   time.Time
}

type Repository interface {
	// FindBySchool returns the school's schedule. Uniqueness is enforced
	// at write time, so at most one row exists per school.
	FindBySchool(ctx context.Context, schoolID string) (*Schedule, error)
	Upsert(ctx context.Context, schedule *Schedule) error
}

// SecondsIntoDay collapses a timestamp to its time-of-day for comparisons
// that ignore the date component.
func SecondsIntoDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
