package civil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockConvertsToCivilZone(t *testing.T) {
	// 2025-03-06 23:30 UTC is already 2025-03-07 08:30 in KST.
	clock := At(time.Date(2025, 3, 6, 23, 30, 0, 0, time.UTC))

	assert.Equal(t, "2025-03-07", clock.Today())
	assert.Equal(t, "08:30", clock.TimeHM())
}

func TestAddDaysUsesCivilCalendar(t *testing.T) {
	// 15:30 UTC on the 6th = 00:30 KST on the 7th; adding three days must
	// land on the 10th, not the 9th.
	clock := At(time.Date(2025, 3, 6, 15, 30, 0, 0, time.UTC))

	assert.Equal(t, "2025-03-07", clock.AddDays(0))
	assert.Equal(t, "2025-03-10", clock.AddDays(3))
}

func TestAddDaysAcrossMonthBoundary(t *testing.T) {
	clock := At(time.Date(2025, 1, 30, 5, 0, 0, 0, time.UTC))

	assert.Equal(t, "2025-02-02", clock.AddDays(3))
}

func TestDaysSinceCountsWholeCivilDays(t *testing.T) {
	clock := At(time.Date(2025, 3, 10, 1, 0, 0, 0, Zone))

	tests := []struct {
		name    string
		created time.Time
		want    int
	}{
		{"same day", time.Date(2025, 3, 10, 0, 30, 0, 0, Zone), 0},
		{"late last night counts a full day", time.Date(2025, 3, 9, 23, 50, 0, 0, Zone), 1},
		{"five days ago", time.Date(2025, 3, 5, 12, 0, 0, 0, Zone), 5},
		{"utc timestamp converted first", time.Date(2025, 3, 9, 16, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clock.DaysSince(tt.created))
		})
	}
}
