// internal/infra/database/postgres_tax_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plan2509/tms-final/internal/domain/tax"
)

type PostgresTaxRepository struct {
	db *sql.DB
}

func NewPostgresTaxRepository(db *sql.DB) *PostgresTaxRepository {
	return &PostgresTaxRepository{db: db}
}

func (r *PostgresTaxRepository) ListByDueDate(ctx context.Context, dueDate string) ([]*tax.Tax, error) {
	query := `SELECT t.id, t.station_id, cs.station_name, t.tax_type, t.tax_amount, to_char(t.due_date, 'YYYY-MM-DD')
               FROM taxes t
               JOIN charging_stations cs ON cs.id = t.station_id
               WHERE t.due_date = $1::date
               ORDER BY t.created_at`
	rows, err := r.db.QueryContext(ctx, query, dueDate)
	if err != nil {
		return nil, fmt.Errorf("error listing taxes by due date: %w", err)
	}
	defer rows.Close()

	var taxes []*tax.Tax
	for rows.Next() {
		t := tax.Tax{}
		if err := rows.Scan(&t.ID, &t.StationID, &t.StationName, &t.Type, &t.Amount, &t.DueDate); err != nil {
			return nil, fmt.Errorf("error scanning tax: %w", err)
		}
		taxes = append(taxes, &t)
	}
	return taxes, rows.Err()
}
