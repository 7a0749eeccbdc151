// internal/domain/station/station.go
package station

import (
	"database/sql"
	"time"
)

// Station is one EV charging station. The canopy flag gates whether a
// use-approval date is required at all.
type Station struct {
	ID              string
	Name            string
	Location        string
	Address         string
	CanopyInstalled bool
	CreatedAt       time.Time
}

// Schedule is the station's one-to-one schedule row; it may be absent.
// Corresponds to the 'station_schedules' table.
type Schedule struct {
	StationID            string
	UseApprovalEnabled   bool
	UseApprovalDate      sql.NullString // civil date, "YYYY-MM-DD"
	SafetyInspectionDate sql.NullString
}

// MissingField names which required schedule date a completeness reminder
// refers to.
type MissingField string

const (
	MissingUseApproval      MissingField = "use_approval"
	MissingSafetyInspection MissingField = "safety_inspection"
)

// Label returns the Korean display label for the missing field.
func (m MissingField) Label() string {
	if m == MissingUseApproval {
		return "사용 승인일"
	}
	return "안전 점검일"
}

// MissingFields reports which required dates are absent for the station.
// sched may be nil when the station has no schedule row yet. A canopy
// station needs both dates; every station needs a safety inspection date.
func MissingFields(st *Station, sched *Schedule) []MissingField {
	var missing []MissingField
	if st.CanopyInstalled {
		if sched == nil || !sched.UseApprovalEnabled || !sched.UseApprovalDate.Valid {
			missing = append(missing, MissingUseApproval)
		}
	}
	if sched == nil || !sched.SafetyInspectionDate.Valid {
		missing = append(missing, MissingSafetyInspection)
	}
	return missing
}
