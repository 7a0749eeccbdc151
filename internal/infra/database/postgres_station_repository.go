// internal/infra/database/postgres_station_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plan2509/tms-final/internal/domain/station"
)

type PostgresStationRepository struct {
	db *sql.DB
}

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{db: db}
}

func (r *PostgresStationRepository) ListAll(ctx context.Context) ([]*station.Station, error) {
	query := `SELECT id, station_name, location, address, canopy_installed, created_at
               FROM charging_stations
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing stations: %w", err)
	}
	defer rows.Close()

	var stations []*station.Station
	for rows.Next() {
		s := station.Station{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Address, &s.CanopyInstalled, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning station: %w", err)
		}
		stations = append(stations, &s)
	}
	return stations, rows.Err()
}

func (r *PostgresStationRepository) ListSchedules(ctx context.Context) ([]*station.Schedule, error) {
	query := `SELECT station_id, use_approval_enabled,
                     to_char(use_approval_date, 'YYYY-MM-DD'),
                     to_char(safety_inspection_date, 'YYYY-MM-DD')
               FROM station_schedules`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing station schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*station.Schedule
	for rows.Next() {
		s := station.Schedule{}
		if err := rows.Scan(&s.StationID, &s.UseApprovalEnabled, &s.UseApprovalDate, &s.SafetyInspectionDate); err != nil {
			return nil, fmt.Errorf("error scanning station schedule: %w", err)
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}
