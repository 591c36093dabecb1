package service

import (
	"context"
	"errors"
	"strings"

	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

// ChannelService owns channel CRUD within a project.
type ChannelService struct {
	store  Store
	logger *logging.Logger
}

func NewChannelService(store Store, logger *logging.Logger) *ChannelService {
	return &ChannelService{store: store, logger: logger}
}

// List returns the channels of one project.
func (s *ChannelService) List(ctx context.Context, projectID int64) ([]models.Channel, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, notFoundf("project not found.")
		}
		return nil, err
	}
	return s.store.ListChannels(ctx, projectID)
}

// Create adds a channel to a project. Channel names are slug-like: spaces
// become dashes so they stay usable in ingestion payloads and URLs.
func (s *ChannelService) Create(ctx context.Context, req *models.CreateChannelRequest) (*models.Channel, error) {
	if req.Name == "" {
		return nil, invalidf("name is a required field.")
	}
	if req.ProjectID == 0 {
		return nil, invalidf("project_id is a required field.")
	}
	if _, err := s.store.GetProject(ctx, req.ProjectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, notFoundf("project not found.")
		}
		return nil, err
	}

	channel := &models.Channel{
		Name:        strings.ReplaceAll(req.Name, " ", "-"),
		Description: req.Description,
		ProjectID:   req.ProjectID,
	}
	if err := s.store.CreateChannel(ctx, channel); err != nil {
		if errors.Is(err, repository.ErrDuplicateChannel) {
			return nil, conflictf("a channel with this name already exists in the project.")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "channel created",
		logging.ProjectID(channel.ProjectID), logging.ChannelID(channel.ID))
	return channel, nil
}

// Delete removes a channel and all of its events.
func (s *ChannelService) Delete(ctx context.Context, channelID int64) error {
	if err := s.store.DeleteChannel(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return notFoundf("channel not found.")
		}
		return err
	}
	s.logger.InfoContext(ctx, "channel deleted", logging.ChannelID(channelID))
	return nil
}
