package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventType is the closed set of camera-derived event kinds.
type EventType string

const (
	TypeStudentEntrance EventType = "STUDENT_ENTRANCE"
	TypeStudentExit     EventType = "STUDENT_EXIT"
	TypeFighting        EventType = "FIGHTING"
	TypeSmoking         EventType = "SMOKING"
	TypeWeapon          EventType = "WEAPON"
	TypeLyingMan        EventType = "LYING_MAN"
)

// DangerTypes are the incident kinds surfaced on the danger feed.
var DangerTypes = []EventType{TypeFighting, TypeSmoking, TypeWeapon}

type InvalidEventTypeError struct {
	Raw string
}

func (e InvalidEventTypeError) Error() string {
	return fmt.Sprintf("invalid event type %q", e.Raw)
}

// ParseEventType normalizes a raw string against the known set, ignoring
// case. Anything outside the set is rejected.
func ParseEventType(raw string) (EventType, error) {
	switch EventType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeStudentEntrance:
		return TypeStudentEntrance, nil
	case TypeStudentExit:
		return TypeStudentExit, nil
	case TypeFighting:
		return TypeFighting, nil
	case TypeSmoking:
		return TypeSmoking, nil
	case TypeWeapon:
		return TypeWeapon, nil
	case TypeLyingMan:
		return TypeLyingMan, nil
	default:
		return "", InvalidEventTypeError{Raw: raw}
	}
}

func (t EventType) IsDanger() bool {
	switch t {
	case TypeFighting, TypeSmoking, TypeWeapon:
		return true
	default:
		return false
	}
}

// Event is the stored record.
type Event struct {
	ID        string
	SchoolID  string
	StudentID string
	Type      EventType
	Timestamp time.Time
	CameraID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the listing shape: the student's display name is joined in so a
// student ID never crosses the API boundary.
type View struct {
	EventID     string
	Timestamp   time.Time
	Type        EventType
	CameraID    string
	StudentName string
}

var ErrNotFound = errors.New("event not found")

type Repository interface {
	Insert(ctx context.Context, event *Event) error

	// ListViews returns the school's events joined with student names,
	// optionally restricted to a set of types. No types means all types.
	ListViews(ctx context.Context, schoolID string, types ...EventType) ([]View, error)
	Count(ctx context.Context, schoolID string) (int64, error)

	// ListBetween returns the school's events with timestamps in the
	// inclusive [from, to] window.
	ListBetween(ctx context.Context, schoolID string, from, to time.Time) ([]Event, error)
}
