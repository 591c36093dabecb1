package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/beaver-systems/beaver/internal/models"
)

// CreateUser inserts a user and returns it with its assigned id.
func (r *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByUsername returns a user by login name.
func (r *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by id.
func (r *Postgres) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CountAdmins reports how many admin accounts exist. The bootstrap endpoint
// only works while this is zero.
func (r *Postgres) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// CreateSession stores a refresh session.
func (r *Postgres) CreateSession(ctx context.Context, s *models.Session) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3)
         RETURNING id, created_at`,
		s.UserID, s.Token, s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSessionByToken returns a live session, treating expired ones as absent.
func (r *Postgres) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token, expires_at, created_at FROM sessions
         WHERE token = $1 AND expires_at > $2`,
		token, time.Now().UTC(),
	).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// DeleteSession revokes one refresh session.
func (r *Postgres) DeleteSession(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpiredSessions clears out sessions past their expiry.
func (r *Postgres) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
