// internal/domain/civil/civil.go
package civil

import "time"

// Zone is the fixed civil timezone for the whole system (KST, UTC+9).
// Every due-date comparison and idempotency date is computed here,
// never in the machine's local zone.
var Zone = time.FixedZone("Asia/Seoul", 9*60*60)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock freezes one instant for an entire dispatch invocation. All date
// arithmetic within a run goes through the same Clock so that a run
// straddling midnight cannot mix two different "today"s.
type Clock struct {
	now time.Time
}

// At returns a Clock fixed to the given instant, expressed in the civil zone.
func At(instant time.Time) Clock {
	return Clock{now: instant.In(Zone)}
}

// Now returns the frozen instant in the civil zone.
func (c Clock) Now() time.Time {
	return c.now
}

// Today returns the civil calendar date as "YYYY-MM-DD".
func (c Clock) Today() string {
	return c.now.Format(DateLayout)
}

// TimeHM returns the civil clock time as "HH:MM".
func (c Clock) TimeHM() string {
	return c.now.Format(TimeLayout)
}

// AddDays returns the civil date n days after today as "YYYY-MM-DD".
func (c Clock) AddDays(n int) string {
	return c.now.AddDate(0, 0, n).Format(DateLayout)
}

// DaysSince returns the number of whole civil days between t's calendar
// date and today. A station created late at night counts a full day as
// soon as the civil date rolls over.
func (c Clock) DaysSince(t time.Time) int {
	then := t.In(Zone)
	thenDate := time.Date(then.Year(), then.Month(), then.Day(), 0, 0, 0, 0, Zone)
	todayDate := time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, Zone)
	return int(todayDate.Sub(thenDate) / (24 * time.Hour))
}
