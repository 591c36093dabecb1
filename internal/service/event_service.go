package service

import (
	"context"
	"errors"

	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/metrics"
	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

// EventService owns event ingestion and the read side of the event log.
type EventService struct {
	store  Store
	logger *logging.Logger
}

func NewEventService(store Store, logger *logging.Logger) *EventService {
	return &EventService{store: store, logger: logger}
}

// Ingest validates and persists one event submitted with a project api key.
// Field checks run in a fixed order so clients get stable error messages;
// the api key is authenticated before the channel is resolved, never after.
func (s *EventService) Ingest(ctx context.Context, req *models.IngestRequest) (*models.Event, error) {
	if req.Name == "" {
		return nil, invalidf("name is a required field.")
	}
	if req.Channel == "" {
		return nil, invalidf("channel is a required field.")
	}
	if req.APIKey == "" {
		return nil, invalidf("apiKey is a required field.")
	}

	tags, err := models.ParseTagMap(req.Tags)
	if err != nil {
		return nil, invalidf("tags object is not valid JSON.")
	}

	project, err := s.store.GetProjectByAPIKey(ctx, req.APIKey)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, unauthorizedf("invalid API key.")
		}
		return nil, err
	}

	channel, err := s.store.GetProjectChannel(ctx, project.ID, req.Channel)
	if err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return nil, notFoundf("channel not found.")
		}
		return nil, err
	}

	event := &models.Event{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		ProjectID:   project.ID,
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		Tags:        tags,
	}
	if err := s.store.InsertEvent(ctx, event); err != nil {
		return nil, err
	}

	metrics.EventsIngested.WithLabelValues(project.Name).Inc()
	s.logger.InfoContext(ctx, "event ingested",
		logging.ProjectID(project.ID),
		logging.ChannelID(channel.ID),
		logging.EventID(event.ID))
	return event, nil
}

// Event returns a single event by id.
func (s *EventService) Event(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, notFoundf("event not found.")
		}
		return nil, err
	}
	return event, nil
}

// ChannelEvents returns one filtered page of a channel's events.
func (s *EventService) ChannelEvents(ctx context.Context, channelID int64, q models.EventQuery) ([]models.Event, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return nil, notFoundf("channel not found.")
		}
		return nil, err
	}
	return s.queryEvents(ctx, func(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
		return s.store.ListChannelEvents(ctx, channelID, q)
	}, q)
}

// ProjectEvents returns one filtered page of events across a project.
func (s *EventService) ProjectEvents(ctx context.Context, projectID int64, q models.EventQuery) ([]models.Event, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, notFoundf("project not found.")
		}
		return nil, err
	}
	return s.queryEvents(ctx, func(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
		return s.store.ListProjectEvents(ctx, projectID, q)
	}, q)
}

func (s *EventService) queryEvents(ctx context.Context, list func(context.Context, models.EventQuery) ([]models.Event, error), q models.EventQuery) ([]models.Event, error) {
	if err := normalizeQuery(&q); err != nil {
		return nil, err
	}
	timer := metrics.ObserveQuery()
	events, err := list(ctx, q)
	timer()
	return events, err
}

// normalizeQuery applies defaults and rejects parameter combinations the
// cursor protocol cannot serve.
func normalizeQuery(q *models.EventQuery) error {
	if q.Limit <= 0 {
		q.Limit = models.DefaultQueryLimit
	}
	if q.SortBy == "" {
		q.SortBy = models.SortByDate
	}
	if q.SortOrder == "" {
		q.SortOrder = models.SortDesc
	}
	if q.SortBy != models.SortByDate && q.SortBy != models.SortByName {
		return invalidf("sortBy must be date or name.")
	}
	if q.SortOrder != models.SortAsc && q.SortOrder != models.SortDesc {
		return invalidf("sortOrder must be asc or desc.")
	}
	if q.AfterID > 0 && q.BeforeID > 0 {
		return invalidf("afterId and beforeId cannot be combined.")
	}
	if q.AfterID > 0 && q.Offset > 0 {
		return invalidf("afterId and offset cannot be combined.")
	}
	if (q.AfterID > 0 || q.BeforeID > 0) && !q.IsDefaultOrder() {
		return invalidf("id cursors require the default sort order.")
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return invalidf("endDate must not precede startDate.")
	}
	return nil
}

// MaxEventID returns the newest event id, the seed for a tail cursor.
func (s *EventService) MaxEventID(ctx context.Context) (int64, error) {
	return s.store.MaxEventID(ctx)
}

// ChannelTags lists the distinct tag keys and values seen in a channel.
func (s *EventService) ChannelTags(ctx context.Context, channelID int64) ([]models.AvailableTag, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrChannelNotFound) {
			return nil, notFoundf("channel not found.")
		}
		return nil, err
	}
	return s.store.ChannelAvailableTags(ctx, channelID)
}

// ProjectTags lists the distinct tag keys and values seen across a project.
func (s *EventService) ProjectTags(ctx context.Context, projectID int64) ([]models.AvailableTag, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, notFoundf("project not found.")
		}
		return nil, err
	}
	return s.store.ProjectAvailableTags(ctx, projectID)
}
