// internal/domain/station/repository.go
package station

import "context"

// Repository defines read access to stations and their schedule rows.
type Repository interface {
	ListAll(ctx context.Context) ([]*Station, error)
	// ListSchedules returns every station schedule row. Callers index the
	// result by StationID; the one-to-one lookup stays O(1) per station.
	ListSchedules(ctx context.Context) ([]*Schedule, error)
}
