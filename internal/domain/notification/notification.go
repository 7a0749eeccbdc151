// internal/domain/notification/notification.go
package notification

import (
	"database/sql"
	"time"
)

// Type is the notification category.
type Type string

const (
	TypeTax             Type = "tax"
	TypeStationSchedule Type = "station_schedule"
	TypeManual          Type = "manual"
)

// Notification is one at-most-once notification record.
// Corresponds to the 'notifications' table. The tuple
// (type, schedule, tax, station, missing field, date) is the sole
// de-duplication key; a unique index enforces it at the storage layer.
type Notification struct {
	ID                 string
	Type               Type
	ScheduleID         sql.NullString // nil for manual notifications
	TaxID              sql.NullString
	StationID          sql.NullString
	StationMissingType sql.NullString // use_approval | safety_inspection
	NotificationDate   string         // civil date the reminder belongs to, "YYYY-MM-DD"
	NotificationTime   string         // "HH:MM"
	Title              string
	Message            string
	TeamsChannelID     sql.NullString // nil = broadcast
	IsSent             bool
	SentAt             sql.NullTime
	ErrorMessage       sql.NullString
	LastAttemptAt      sql.NullTime
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Key identifies one notification occurrence for idempotency lookups.
// Unused reference fields stay empty; they match SQL NULL columns.
type Key struct {
	Type               Type
	ScheduleID         string
	TaxID              string
	StationID          string
	StationMissingType string
	NotificationDate   string
}

// Key returns the idempotency key of the record.
func (n *Notification) Key() Key {
	return Key{
		Type:               n.Type,
		ScheduleID:         n.ScheduleID.String,
		TaxID:              n.TaxID.String,
		StationID:          n.StationID.String,
		StationMissingType: n.StationMissingType.String,
		NotificationDate:   n.NotificationDate,
	}
}

// DeliveryStatus is the write-back after a delivery attempt. Sent flips to
// true only when every resolved target succeeded; a failed record keeps
// IsSent=false and may be retried by a later operator action.
type DeliveryStatus struct {
	Sent          bool
	SentAt        sql.NullTime
	ErrorMessage  sql.NullString
	LastAttemptAt time.Time
}

// DeliveryLog is one audit row for an explicit send attempt.
// Corresponds to the 'notification_logs' table.
type DeliveryLog struct {
	ID             string
	NotificationID string
	SendStatus     string // success | failed
	ErrorMessage   sql.NullString
	SentAt         time.Time
}
