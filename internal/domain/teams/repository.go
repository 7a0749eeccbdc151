// internal/domain/teams/repository.go
package teams

import "context"

// Repository defines read access to Teams webhook channels.
type Repository interface {
	ListActive(ctx context.Context) ([]*Channel, error)
	// ListActiveByIDs returns the active channels among the given ids.
	// Unknown or inactive ids are silently omitted.
	ListActiveByIDs(ctx context.Context, ids []string) ([]*Channel, error)
}
