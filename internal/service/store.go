package service

import (
	"context"

	"github.com/beaver-systems/beaver/internal/models"
)

// Store is the persistence surface the services depend on. The postgres
// repository satisfies it; tests substitute a mock.
type Store interface {
	// Events
	ListChannelEvents(ctx context.Context, channelID int64, q models.EventQuery) ([]models.Event, error)
	ListProjectEvents(ctx context.Context, projectID int64, q models.EventQuery) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*models.Event, error)
	MaxEventID(ctx context.Context) (int64, error)
	InsertEvent(ctx context.Context, e *models.Event) error
	ChannelAvailableTags(ctx context.Context, channelID int64) ([]models.AvailableTag, error)
	ProjectAvailableTags(ctx context.Context, projectID int64) ([]models.AvailableTag, error)

	// Channels
	ListChannels(ctx context.Context, projectID int64) ([]models.Channel, error)
	GetChannel(ctx context.Context, channelID int64) (*models.Channel, error)
	GetProjectChannel(ctx context.Context, projectID int64, name string) (*models.Channel, error)
	CreateChannel(ctx context.Context, c *models.Channel) error
	DeleteChannel(ctx context.Context, channelID int64) error

	// Projects
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID int64) ([]models.Project, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, projectID int64) error

	// Users and sessions
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CountAdmins(ctx context.Context) (int64, error)
	CreateSession(ctx context.Context, s *models.Session) error
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
