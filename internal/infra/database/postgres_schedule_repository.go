// internal/infra/database/postgres_schedule_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plan2509/tms-final/internal/domain/schedule"
)

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

func (r *PostgresScheduleRepository) ListActiveByType(ctx context.Context, schedType schedule.Type) ([]*schedule.Schedule, error) {
	query := `SELECT id, name, notification_type, days_before, is_active, teams_channel_id, created_at
               FROM notification_schedules
               WHERE notification_type = $1 AND is_active = TRUE
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, schedType)
	if err != nil {
		return nil, fmt.Errorf("error listing active schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*schedule.Schedule
	for rows.Next() {
		s := schedule.Schedule{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.DaysBefore, &s.IsActive, &s.TeamsChannelID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}
