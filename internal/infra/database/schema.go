package database

import (
	"database/sql"
	"fmt"
)

// Collaborator tables (schedules, taxes, stations, channels) are owned by
// the back-office CRUD application; the DDL here only guarantees a usable
// schema for fresh environments. The notifications unique index is the
// load-bearing part: it is the sole concurrency safeguard for idempotent
// creation across overlapping dispatch invocations.
const schema = `
CREATE TABLE IF NOT EXISTS teams_channels (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    webhook_url TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notification_schedules (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    notification_type TEXT NOT NULL CHECK (notification_type IN ('tax', 'station_schedule')),
    days_before INTEGER NOT NULL CHECK (days_before >= 0),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    teams_channel_id UUID REFERENCES teams_channels(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS charging_stations (
    id UUID PRIMARY KEY,
    station_name TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    canopy_installed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS station_schedules (
    station_id UUID PRIMARY KEY REFERENCES charging_stations(id),
    use_approval_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    use_approval_date DATE,
    safety_inspection_date DATE
);

CREATE TABLE IF NOT EXISTS taxes (
    id UUID PRIMARY KEY,
    station_id UUID NOT NULL REFERENCES charging_stations(id),
    tax_type TEXT NOT NULL CHECK (tax_type IN ('acquisition', 'property', 'other')),
    tax_amount BIGINT NOT NULL DEFAULT 0,
    due_date DATE NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'review' CHECK (payment_status IN ('review', 'scheduled', 'completed')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    notification_type TEXT NOT NULL CHECK (notification_type IN ('tax', 'station_schedule', 'manual')),
    schedule_id UUID REFERENCES notification_schedules(id),
    tax_id UUID REFERENCES taxes(id),
    station_id UUID REFERENCES charging_stations(id),
    station_missing_type TEXT CHECK (station_missing_type IN ('use_approval', 'safety_inspection')),
    notification_date DATE NOT NULL,
    notification_time TEXT NOT NULL DEFAULT '10:00',
    title TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    teams_channel_id UUID REFERENCES teams_channels(id),
    is_sent BOOLEAN NOT NULL DEFAULT FALSE,
    sent_at TIMESTAMPTZ,
    error_message TEXT,
    last_attempt_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- The idempotency key. NULL reference columns are folded to '' so that two
-- rows with the same key can never coexist (Postgres treats NULLs as
-- distinct in plain unique constraints).
CREATE UNIQUE INDEX IF NOT EXISTS notifications_dedup_key
    ON notifications (
        notification_type,
        COALESCE(schedule_id::text, ''),
        COALESCE(tax_id::text, ''),
        COALESCE(station_id::text, ''),
        COALESCE(station_missing_type, ''),
        notification_date
    );

CREATE INDEX IF NOT EXISTS notifications_pending_manual
    ON notifications (notification_date) WHERE notification_type = 'manual' AND is_sent = FALSE;

CREATE TABLE IF NOT EXISTS notification_logs (
    id UUID PRIMARY KEY,
    notification_id UUID NOT NULL REFERENCES notifications(id),
    send_status TEXT NOT NULL CHECK (send_status IN ('success', 'failed')),
    error_message TEXT,
    sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// InitSchema applies the embedded DDL. All statements are idempotent.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	return nil
}
