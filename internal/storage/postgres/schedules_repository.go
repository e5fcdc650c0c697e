package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var _ schedules.Repository = (*ScheduleRepository)(nil)

// FindBySchool takes the oldest row when several exist for one school,
// which keeps the lookup deterministic without enforcing one-to-one at
// write time.
func (r *ScheduleRepository) FindBySchool(ctx context.Context, schoolID string) (*schedules.Schedule, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, organization_id, start_time, end_time
  FROM schedule
 WHERE organization_id = $1
 ORDER BY id ASC
 LIMIT 1
`, schoolID)

	var (
		schedule  schedules.Schedule
		startTime pgtype.Timestamptz
		endTime   pgtype.Timestamptz
	)
	if err := row.Scan(&schedule.ID, &schedule.SchoolID, &startTime, &endTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schedules.ErrNotFound
		}
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	schedule.StartTime = startTime.Time
	schedule.EndTime = endTime.Time
	return &schedule, nil
}

func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *schedules.Schedule) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO schedule (id, organization_id, start_time, end_time)
VALUES ($1, $2, $3, $4)
ON CONFLICT (organization_id)
DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
`, schedule.ID, schedule.SchoolID, schedule.StartTime, schedule.EndTime)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
