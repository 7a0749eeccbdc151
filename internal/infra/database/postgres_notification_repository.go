// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/plan2509/tms-final/internal/domain/notification"

	"github.com/google/uuid"
)

// Custom errors specific to notification repository
var ErrNotificationNotFound = fmt.Errorf("notification not found")
var ErrDuplicateNotification = fmt.Errorf("duplicate notification (type, schedule_id, tax_id, station_id, station_missing_type, notification_date)")

const notificationColumns = `id, notification_type, schedule_id, tax_id, station_id, station_missing_type,
               to_char(notification_date, 'YYYY-MM-DD'), notification_time, title, message, teams_channel_id,
               is_sent, sent_at, error_message, last_attempt_at, created_at, updated_at`

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) FindByKey(ctx context.Context, key notification.Key) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + `
               FROM notifications
               WHERE notification_type = $1
                 AND COALESCE(schedule_id::text, '') = $2
                 AND COALESCE(tax_id::text, '') = $3
                 AND COALESCE(station_id::text, '') = $4
                 AND COALESCE(station_missing_type, '') = $5
                 AND notification_date = $6::date
               LIMIT 1`
	row := r.db.QueryRowContext(ctx, query,
		key.Type, key.ScheduleID, key.TaxID, key.StationID, key.StationMissingType, key.NotificationDate)
	return scanNotification(row)
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `INSERT INTO notifications (id, notification_type, schedule_id, tax_id, station_id, station_missing_type,
                                        notification_date, notification_time, title, message, teams_channel_id, is_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10, $11, $12)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.Type, nullUUID(n.ScheduleID), nullUUID(n.TaxID), nullUUID(n.StationID), nullString(n.StationMissingType),
		n.NotificationDate, n.NotificationTime, n.Title, n.Message, nullUUID(n.TeamsChannelID), n.IsSent,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "notifications_dedup_key") { // Check for unique constraint violation
			return ErrDuplicateNotification
		}
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) UpdateMessage(ctx context.Context, id, message string) error {
	query := `UPDATE notifications SET message = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, message, id)
	if err != nil {
		return fmt.Errorf("error updating notification message: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) UpdateDeliveryStatus(ctx context.Context, id string, status notification.DeliveryStatus) error {
	query := `UPDATE notifications
               SET is_sent = $1, sent_at = $2, error_message = $3, last_attempt_at = $4, updated_at = NOW()
               WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, status.Sent, status.SentAt, status.ErrorMessage, status.LastAttemptAt, id)
	if err != nil {
		return fmt.Errorf("error updating notification delivery status: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) ListPendingManual(ctx context.Context, date string) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + `
               FROM notifications
               WHERE notification_type = $1 AND is_sent = FALSE AND notification_date = $2::date
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, notification.TypeManual, date)
	if err != nil {
		return nil, fmt.Errorf("error listing pending manual notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresNotificationRepository) CreateLog(ctx context.Context, l *notification.DeliveryLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `INSERT INTO notification_logs (id, notification_id, send_status, error_message, sent_at)
               VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, l.ID, l.NotificationID, l.SendStatus, l.ErrorMessage, l.SentAt)
	if err != nil {
		return fmt.Errorf("error creating notification log: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	n := notification.Notification{}
	err := row.Scan(
		&n.ID, &n.Type, &n.ScheduleID, &n.TaxID, &n.StationID, &n.StationMissingType,
		&n.NotificationDate, &n.NotificationTime, &n.Title, &n.Message, &n.TeamsChannelID,
		&n.IsSent, &n.SentAt, &n.ErrorMessage, &n.LastAttemptAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error scanning notification: %w", err)
	}
	return &n, nil
}

// nullUUID maps an unset NullString to SQL NULL so it lands in a UUID column.
func nullUUID(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	return s.String
}

func nullString(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	return s.String
}
