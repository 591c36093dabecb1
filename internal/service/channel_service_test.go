package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

func TestCreateChannelSlugifiesName(t *testing.T) {
	store := &mockStore{}
	store.On("GetProject", mock.Anything, int64(1)).
		Return(&models.Project{ID: 1}, nil)
	store.On("CreateChannel", mock.Anything, mock.MatchedBy(func(c *models.Channel) bool {
		return c.Name == "user-signups" && c.ProjectID == 1
	})).Return(nil)
	svc := NewChannelService(store, testLogger())

	channel, err := svc.Create(context.Background(), &models.CreateChannelRequest{
		Name: "user signups", ProjectID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-signups", channel.Name)
	store.AssertExpectations(t)
}

func TestCreateChannelValidation(t *testing.T) {
	svc := NewChannelService(&mockStore{}, testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.CreateChannelRequest{ProjectID: 1})
	assert.EqualError(t, err, "name is a required field.")

	_, err = svc.Create(ctx, &models.CreateChannelRequest{Name: "c"})
	assert.EqualError(t, err, "project_id is a required field.")
}

func TestCreateChannelDuplicate(t *testing.T) {
	store := &mockStore{}
	store.On("GetProject", mock.Anything, int64(1)).
		Return(&models.Project{ID: 1}, nil)
	store.On("CreateChannel", mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateChannel)
	svc := NewChannelService(store, testLogger())

	_, err := svc.Create(context.Background(), &models.CreateChannelRequest{
		Name: "payments", ProjectID: 1,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteChannelNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("DeleteChannel", mock.Anything, int64(9)).
		Return(repository.ErrChannelNotFound)
	svc := NewChannelService(store, testLogger())

	err := svc.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChannelsUnknownProject(t *testing.T) {
	store := &mockStore{}
	store.On("GetProject", mock.Anything, int64(2)).
		Return(nil, repository.ErrProjectNotFound)
	svc := NewChannelService(store, testLogger())

	_, err := svc.List(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
