// internal/domain/tax/repository.go
package tax

import "context"

// Repository defines read access to tax obligations.
type Repository interface {
	// ListByDueDate returns all taxes whose due date equals the given
	// civil date ("YYYY-MM-DD"), with the owning station's name joined in.
	ListByDueDate(ctx context.Context, dueDate string) ([]*Tax, error)
}
