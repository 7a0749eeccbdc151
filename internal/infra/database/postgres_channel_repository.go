// internal/infra/database/postgres_channel_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plan2509/tms-final/internal/domain/teams"

	"github.com/lib/pq"
)

var ErrChannelNotFound = fmt.Errorf("teams channel not found")

type PostgresChannelRepository struct {
	db *sql.DB
}

func NewPostgresChannelRepository(db *sql.DB) *PostgresChannelRepository {
	return &PostgresChannelRepository{db: db}
}

func (r *PostgresChannelRepository) ListActive(ctx context.Context) ([]*teams.Channel, error) {
	query := `SELECT id, name, webhook_url, is_active, created_at
               FROM teams_channels
               WHERE is_active = TRUE
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active teams channels: %w", err)
	}
	defer rows.Close()
	return scanChannels(rows)
}

func (r *PostgresChannelRepository) ListActiveByIDs(ctx context.Context, ids []string) ([]*teams.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, name, webhook_url, is_active, created_at
               FROM teams_channels
               WHERE is_active = TRUE AND id = ANY($1)
               ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error listing teams channels by ids: %w", err)
	}
	defer rows.Close()
	return scanChannels(rows)
}

func scanChannels(rows *sql.Rows) ([]*teams.Channel, error) {
	var channels []*teams.Channel
	for rows.Next() {
		c := teams.Channel{}
		if err := rows.Scan(&c.ID, &c.Name, &c.WebhookURL, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning teams channel: %w", err)
		}
		channels = append(channels, &c)
	}
	return channels, rows.Err()
}
