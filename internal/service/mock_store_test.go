package service

import (
	"context"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/models"
)

func testLogger() *logging.Logger {
	return logging.New(slog.LevelError, "text")
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListChannelEvents(ctx context.Context, channelID int64, q models.EventQuery) ([]models.Event, error) {
	args := m.Called(ctx, channelID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockStore) ListProjectEvents(ctx context.Context, projectID int64, q models.EventQuery) ([]models.Event, error) {
	args := m.Called(ctx, projectID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *mockStore) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *mockStore) MaxEventID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) InsertEvent(ctx context.Context, e *models.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockStore) ChannelAvailableTags(ctx context.Context, channelID int64) ([]models.AvailableTag, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailableTag), args.Error(1)
}

func (m *mockStore) ProjectAvailableTags(ctx context.Context, projectID int64) ([]models.AvailableTag, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailableTag), args.Error(1)
}

func (m *mockStore) ListChannels(ctx context.Context, projectID int64) ([]models.Channel, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Channel), args.Error(1)
}

func (m *mockStore) GetChannel(ctx context.Context, channelID int64) (*models.Channel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *mockStore) GetProjectChannel(ctx context.Context, projectID int64, name string) (*models.Channel, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *mockStore) CreateChannel(ctx context.Context, c *models.Channel) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockStore) DeleteChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *mockStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockStore) ListProjectsByOwner(ctx context.Context, ownerID int64) ([]models.Project, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockStore) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockStore) GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockStore) CreateProject(ctx context.Context, p *models.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) DeleteProject(ctx context.Context, projectID int64) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *mockStore) CreateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockStore) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) CreateSession(ctx context.Context, s *models.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStore) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockStore) DeleteSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
