package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/beaver-systems/beaver/internal/models"
)

const channelColumns = "id, name, description, project_id, created_at"

// ListChannels returns all channels of a project, newest first.
func (r *Postgres) ListChannels(ctx context.Context, projectID int64) ([]models.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE project_id = $1 ORDER BY created_at DESC, id DESC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels := []models.Channel{}
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

// GetChannel returns a channel by id.
func (r *Postgres) GetChannel(ctx context.Context, channelID int64) (*models.Channel, error) {
	var c models.Channel
	err := r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE id = $1`, channelID,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &c, nil
}

// GetProjectChannel resolves a channel by name within one project. Channel
// names are only unique per project, so lookups are always scoped.
func (r *Postgres) GetProjectChannel(ctx context.Context, projectID int64, name string) (*models.Channel, error) {
	var c models.Channel
	err := r.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE project_id = $1 AND name = $2`,
		projectID, name,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ProjectID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("get project channel: %w", err)
	}
	return &c, nil
}

// CreateChannel inserts a channel and returns it with its assigned id.
func (r *Postgres) CreateChannel(ctx context.Context, c *models.Channel) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO channels (name, description, project_id) VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		c.Name, c.Description, c.ProjectID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateChannel
		}
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// DeleteChannel removes a channel with all its events and their tags in one
// transaction. Tags go first, then events, then the channel row.
func (r *Postgres) DeleteChannel(ctx context.Context, channelID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete channel: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := deleteChannelCascade(ctx, tx, channelID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM channels WHERE id = $1`, channelID)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChannelNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete channel: %w", err)
	}
	return nil
}

// deleteChannelCascade removes a channel's events and event tags inside an
// open transaction. Shared with the project cascade.
func deleteChannelCascade(ctx context.Context, tx pgx.Tx, channelID int64) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM event_tags WHERE event_id IN (SELECT id FROM events WHERE channel_id = $1)`,
		channelID)
	if err != nil {
		return fmt.Errorf("delete channel tags: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE channel_id = $1`, channelID); err != nil {
		return fmt.Errorf("delete channel events: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
