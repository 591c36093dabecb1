package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/beaver-systems/beaver/internal/models"
)

// ListChannelEvents returns a bounded, ordered, filtered slice of one
// channel's events, each enriched with its channel name and decoded tag map.
func (r *Postgres) ListChannelEvents(ctx context.Context, channelID int64, q models.EventQuery) ([]models.Event, error) {
	return r.listEvents(ctx, ChannelScope(channelID), q)
}

// ListProjectEvents is ListChannelEvents across a whole project.
func (r *Postgres) ListProjectEvents(ctx context.Context, projectID int64, q models.EventQuery) ([]models.Event, error) {
	return r.listEvents(ctx, ProjectScope(projectID), q)
}

func (r *Postgres) listEvents(ctx context.Context, scope EventScope, q models.EventQuery) ([]models.Event, error) {
	sql, args := buildEventQuery(scope, q)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.Icon,
			&e.ProjectID, &e.ChannelID, &e.CreatedAt, &e.ChannelName,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if err := r.attachTags(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns a single enriched event by id.
func (r *Postgres) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	q := `SELECT ` + eventColumns + `
          FROM events e JOIN channels c ON e.channel_id = c.id
          WHERE e.id = $1`

	var e models.Event
	err := r.pool.QueryRow(ctx, q, eventID).Scan(
		&e.ID, &e.Name, &e.Description, &e.Icon,
		&e.ProjectID, &e.ChannelID, &e.CreatedAt, &e.ChannelName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	events := []models.Event{e}
	if err := r.attachTags(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

// MaxEventID returns the highest assigned event id, or 0 on an empty table.
// Clients use it to seed the tail cursor before opening a stream.
func (r *Postgres) MaxEventID(ctx context.Context) (int64, error) {
	var maxID *int64
	if err := r.pool.QueryRow(ctx, `SELECT MAX(id) FROM events`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max event id: %w", err)
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID, nil
}

// InsertEvent persists an event and its tags as one transaction. The event
// id and timestamp are assigned by the store; the tag set invariant (one
// key per event) is enforced by the schema.
func (r *Postgres) InsertEvent(ctx context.Context, e *models.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert event: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO events (name, description, icon, project_id, channel_id)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		e.Name, e.Description, e.Icon, e.ProjectID, e.ChannelID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	// Deterministic insert order keeps failures reproducible.
	keys := make([]string, 0, len(e.Tags))
	for k := range e.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := e.Tags[key]
		_, err := tx.Exec(ctx,
			`INSERT INTO event_tags (event_id, key, value, type) VALUES ($1, $2, $3, $4)`,
			e.ID, key, v.StoreValue(), string(v.Kind),
		)
		if err != nil {
			return fmt.Errorf("insert tag %q: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert event: %w", err)
	}
	return nil
}

// attachTags batch-fetches the tags of all given events in one query,
// groups them by event id and decodes each stored value per its type
// discriminant. Never one tag query per event.
func (r *Postgres) attachTags(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	for i := range events {
		ids[i] = events[i].ID
		events[i].Tags = models.TagMap{}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT event_id, key, value, type FROM event_tags WHERE event_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("fetch tags: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]models.TagMap, len(events))
	for i := range events {
		byID[events[i].ID] = events[i].Tags
	}

	for rows.Next() {
		var (
			eventID          int64
			key, value, kind string
		)
		if err := rows.Scan(&eventID, &key, &value, &kind); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		k, err := models.ParseTagKind(kind)
		if err != nil {
			return fmt.Errorf("tag %q of event %d: %w", key, eventID, err)
		}
		if tags, ok := byID[eventID]; ok {
			tags[key] = models.DecodeTagValue(k, value)
		}
	}
	return rows.Err()
}

// ChannelAvailableTags returns the distinct tag key/value pairs observed in
// one channel, grouped by key with sorted values.
func (r *Postgres) ChannelAvailableTags(ctx context.Context, channelID int64) ([]models.AvailableTag, error) {
	return r.availableTags(ctx,
		`SELECT DISTINCT t.key, t.value
         FROM event_tags t JOIN events e ON t.event_id = e.id
         WHERE e.channel_id = $1
         ORDER BY t.key, t.value`, channelID)
}

// ProjectAvailableTags is ChannelAvailableTags across a whole project.
func (r *Postgres) ProjectAvailableTags(ctx context.Context, projectID int64) ([]models.AvailableTag, error) {
	return r.availableTags(ctx,
		`SELECT DISTINCT t.key, t.value
         FROM event_tags t JOIN events e ON t.event_id = e.id
         WHERE e.project_id = $1
         ORDER BY t.key, t.value`, projectID)
}

func (r *Postgres) availableTags(ctx context.Context, sql string, scopeID int64) ([]models.AvailableTag, error) {
	rows, err := r.pool.Query(ctx, sql, scopeID)
	if err != nil {
		return nil, fmt.Errorf("available tags: %w", err)
	}
	defer rows.Close()

	tags := []models.AvailableTag{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan available tag: %w", err)
		}
		// Rows arrive sorted by key, so each key's values stay contiguous.
		if n := len(tags); n > 0 && tags[n-1].Key == key {
			tags[n-1].Values = append(tags[n-1].Values, value)
		} else {
			tags = append(tags, models.AvailableTag{Key: key, Values: []string{value}})
		}
	}
	return tags, rows.Err()
}
