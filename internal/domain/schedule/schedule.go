// internal/domain/schedule/schedule.go
package schedule

import (
	"database/sql"
	"time"
)

// Type partitions notification schedules by what they remind about.
type Type string

const (
	TypeTax             Type = "tax"
	TypeStationSchedule Type = "station_schedule"
)

// Schedule is one recurring reminder definition, managed by the admin UI
// and read-only to this service.
// Corresponds to the 'notification_schedules' table.
type Schedule struct {
	ID             string
	Name           string
	Type           Type
	DaysBefore     int            // lead-time in days, >= 0
	IsActive       bool
	TeamsChannelID sql.NullString // nil = broadcast to all active channels
	CreatedAt      time.Time
}
