// internal/domain/notification/repository.go
package notification

import "context"

// Repository defines the idempotency store for notification records.
type Repository interface {
	// FindByKey returns the record matching the idempotency key, or
	// ErrNotificationNotFound from the infra layer when none exists.
	FindByKey(ctx context.Context, key Key) (*Notification, error)
	// Create inserts a new record. A concurrent writer that already
	// inserted the same key surfaces as ErrDuplicateNotification; callers
	// must treat that as "already exists" and proceed with the found
	// record, not as a fatal error.
	Create(ctx context.Context, n *Notification) error
	// UpdateMessage refreshes only the rendered message text, leaving all
	// delivery bookkeeping untouched.
	UpdateMessage(ctx context.Context, id, message string) error
	UpdateDeliveryStatus(ctx context.Context, id string, status DeliveryStatus) error
	// ListPendingManual returns manual notifications for the given civil
	// date that have not been sent yet.
	ListPendingManual(ctx context.Context, date string) ([]*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	CreateLog(ctx context.Context, l *DeliveryLog) error
}
