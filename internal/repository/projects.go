package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beaver-systems/beaver/internal/models"
)

const projectColumns = "id, name, api_key, owner_id, created_at"

// ListProjects returns every project, newest first.
func (r *Postgres) ListProjects(ctx context.Context) ([]models.Project, error) {
	return r.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
}

// ListProjectsByOwner returns the projects owned by one user, newest first.
func (r *Postgres) ListProjectsByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	return r.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`,
		ownerID)
}

func (r *Postgres) queryProjects(ctx context.Context, sql string, args ...interface{}) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.APIKey, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a project by id.
func (r *Postgres) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	return r.getProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
}

// GetProjectByAPIKey resolves the project an ingestion key belongs to. This
// is the authentication step of the ingest path.
func (r *Postgres) GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	return r.getProject(ctx, `SELECT `+projectColumns+` FROM projects WHERE api_key = $1`, apiKey)
}

func (r *Postgres) getProject(ctx context.Context, sql string, arg interface{}) (*models.Project, error) {
	var p models.Project
	err := r.pool.QueryRow(ctx, sql, arg).Scan(&p.ID, &p.Name, &p.APIKey, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// CreateProject inserts a project and returns it with its assigned id.
func (r *Postgres) CreateProject(ctx context.Context, p *models.Project) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO projects (name, api_key, owner_id) VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		p.Name, p.APIKey, p.OwnerID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateProject
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// DeleteProject removes a project and everything under it: every channel's
// event tags, events, the channels themselves, then the project row. All in
// one transaction so a failure leaves no partial cascade.
func (r *Postgres) DeleteProject(ctx context.Context, projectID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT id FROM channels WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("list project channels: %w", err)
	}
	channelIDs := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan channel id: %w", err)
		}
		channelIDs = append(channelIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list project channels: %w", err)
	}

	for _, channelID := range channelIDs {
		if err := deleteChannelCascade(ctx, tx, channelID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM channels WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete project channels: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete project: %w", err)
	}
	return nil
}
