// internal/domain/schedule/repository.go
package schedule

import "context"

// Repository defines read access to notification schedule definitions.
type Repository interface {
	// ListActiveByType returns the active schedules for one category only.
	ListActiveByType(ctx context.Context, schedType Type) ([]*Schedule, error)
}
