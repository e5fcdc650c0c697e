package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ events.Repository = (*EventRepository)(nil)

func (r *EventRepository) Insert(ctx context.Context, event *events.Event) error {
	var cameraID *string
	if event.CameraID != "" {
		cameraID = &event.CameraID
	}

	_, err := r.queryer().Exec(ctx, `
INSERT INTO event (id, organization_id, student_id, event_type, timestamp, camera_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
`,
		event.ID,
		event.SchoolID,
		event.StudentID,
		string(event.Type),
		event.Timestamp,
		cameraID,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListViews joins events with the student account so listings expose the
// display name instead of the student ID. The school filter applies to the
// event row and, through the join, to the student row as well.
func (r *EventRepository) ListViews(ctx context.Context, schoolID string, types ...events.EventType) ([]events.View, error) {
	var typeFilter any
	if len(types) > 0 {
		names := make([]string, 0, len(types))
		for _, t := range types {
			names = append(names, string(t))
		}
		typeFilter = names
	}

	rows, err := r.queryer().Query(ctx, `
SELECT e.id, e.timestamp, e.event_type, e.camera_id, a.user_name
  FROM event e
  JOIN account a ON a.id = e.student_id
 WHERE e.organization_id = $1
   AND a.organization_id = $1
   AND (coalesce(cardinality($2::text[]), 0) = 0 OR e.event_type = ANY($2::text[]))
 ORDER BY e.timestamp ASC, e.id ASC
`, schoolID, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	views := make([]events.View, 0)
	for rows.Next() {
		var (
			view      events.View
			eventType string
			timestamp pgtype.Timestamptz
			cameraID  pgtype.Text
		)
		if err := rows.Scan(&view.EventID, &timestamp, &eventType, &cameraID, &view.StudentName); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		view.Timestamp = timestamp.Time
		view.Type = events.EventType(eventType)
		view.CameraID = cameraID.String
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *EventRepository) Count(ctx context.Context, schoolID string) (int64, error) {
	var count int64
	err := r.queryer().QueryRow(ctx, `
SELECT count(*) FROM event WHERE organization_id = $1
`, schoolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (r *EventRepository) ListBetween(ctx context.Context, schoolID string, from, to time.Time) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, organization_id, student_id, event_type, timestamp, camera_id
  FROM event
 WHERE organization_id = $1
   AND timestamp >= $2
   AND timestamp <= $3
 ORDER BY timestamp ASC
`, schoolID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events between: %w", err)
	}
	defer rows.Close()

	result := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var (
		event     events.Event
		eventType string
		timestamp pgtype.Timestamptz
		cameraID  pgtype.Text
	)
	err := row.Scan(
		&event.ID,
		&event.SchoolID,
		&event.StudentID,
		&eventType,
		&timestamp,
		&cameraID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	event.Type = events.EventType(eventType)
	event.Timestamp = timestamp.Time
	event.CameraID = cameraID.String
	return &event, nil
}
