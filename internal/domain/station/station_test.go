package station

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func date(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestMissingFields(t *testing.T) {
	canopy := &Station{ID: "st-1", Name: "강남 1호", CanopyInstalled: true}
	plain := &Station{ID: "st-2", Name: "강남 2호", CanopyInstalled: false}

	tests := []struct {
		name    string
		station *Station
		sched   *Schedule
		want    []MissingField
	}{
		{
			name:    "canopy station without any schedule row needs both dates",
			station: canopy,
			sched:   nil,
			want:    []MissingField{MissingUseApproval, MissingSafetyInspection},
		},
		{
			name:    "non-canopy station never needs use approval",
			station: plain,
			sched:   nil,
			want:    []MissingField{MissingSafetyInspection},
		},
		{
			name:    "use approval disabled counts as missing on canopy stations",
			station: canopy,
			sched:   &Schedule{StationID: "st-1", UseApprovalEnabled: false, SafetyInspectionDate: date("2025-04-01")},
			want:    []MissingField{MissingUseApproval},
		},
		{
			name:    "complete canopy station",
			station: canopy,
			sched: &Schedule{
				StationID:            "st-1",
				UseApprovalEnabled:   true,
				UseApprovalDate:      date("2025-03-01"),
				SafetyInspectionDate: date("2025-04-01"),
			},
			want: nil,
		},
		{
			name:    "complete non-canopy station needs only safety inspection",
			station: plain,
			sched:   &Schedule{StationID: "st-2", SafetyInspectionDate: date("2025-04-01")},
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingFields(tt.station, tt.sched))
		})
	}
}

func TestMissingFieldLabel(t *testing.T) {
	assert.Equal(t, "사용 승인일", MissingUseApproval.Label())
	assert.Equal(t, "안전 점검일", MissingSafetyInspection.Label())
}
