package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

func TestIngestValidationOrder(t *testing.T) {
	svc := NewEventService(&mockStore{}, testLogger())
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.IngestRequest
		want string
	}{
		{"missing name", models.IngestRequest{Channel: "c", APIKey: "k"}, "name is a required field."},
		{"missing channel", models.IngestRequest{Name: "n", APIKey: "k"}, "channel is a required field."},
		{"missing api key", models.IngestRequest{Name: "n", Channel: "c"}, "apiKey is a required field."},
		// Name is checked first even when everything is missing.
		{"all missing", models.IngestRequest{}, "name is a required field."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, &tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestIngestMalformedTags(t *testing.T) {
	svc := NewEventService(&mockStore{}, testLogger())

	_, err := svc.Ingest(context.Background(), &models.IngestRequest{
		Name: "n", Channel: "c", APIKey: "k",
		Tags: json.RawMessage(`"{not json"`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "tags object is not valid JSON.")
}

func TestIngestUnknownAPIKey(t *testing.T) {
	store := &mockStore{}
	store.On("GetProjectByAPIKey", mock.Anything, "bad-key").
		Return(nil, repository.ErrProjectNotFound)
	svc := NewEventService(store, testLogger())

	_, err := svc.Ingest(context.Background(), &models.IngestRequest{
		Name: "n", Channel: "c", APIKey: "bad-key",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualError(t, err, "invalid API key.")
	// A bad key never reaches channel resolution.
	store.AssertNotCalled(t, "GetProjectChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestUnknownChannel(t *testing.T) {
	store := &mockStore{}
	store.On("GetProjectByAPIKey", mock.Anything, "key").
		Return(&models.Project{ID: 1, Name: "acme"}, nil)
	store.On("GetProjectChannel", mock.Anything, int64(1), "nope").
		Return(nil, repository.ErrChannelNotFound)
	svc := NewEventService(store, testLogger())

	_, err := svc.Ingest(context.Background(), &models.IngestRequest{
		Name: "n", Channel: "nope", APIKey: "key",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "channel not found.")
}

func TestIngestSuccess(t *testing.T) {
	store := &mockStore{}
	store.On("GetProjectByAPIKey", mock.Anything, "key").
		Return(&models.Project{ID: 1, Name: "acme"}, nil)
	store.On("GetProjectChannel", mock.Anything, int64(1), "payments").
		Return(&models.Channel{ID: 5, Name: "payments", ProjectID: 1}, nil)
	store.On("InsertEvent", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
		return e.Name == "charge" && e.ProjectID == 1 && e.ChannelID == 5 &&
			e.Tags["plan"] == models.StringTag("pro") &&
			e.Tags["amount"] == models.NumberTag(42)
	})).Return(nil)
	svc := NewEventService(store, testLogger())

	event, err := svc.Ingest(context.Background(), &models.IngestRequest{
		Name: "charge", Channel: "payments", APIKey: "key",
		Tags: json.RawMessage(`{"plan":"pro","amount":42}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "payments", event.ChannelName)
	store.AssertExpectations(t)
}

func TestEventByID(t *testing.T) {
	store := &mockStore{}
	store.On("GetEvent", mock.Anything, int64(9)).
		Return(&models.Event{ID: 9, Name: "charge"}, nil)
	store.On("GetEvent", mock.Anything, int64(10)).
		Return(nil, repository.ErrEventNotFound)
	svc := NewEventService(store, testLogger())

	event, err := svc.Event(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "charge", event.Name)

	_, err = svc.Event(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "event not found.")
}

func TestChannelEventsAppliesDefaults(t *testing.T) {
	store := &mockStore{}
	store.On("GetChannel", mock.Anything, int64(5)).
		Return(&models.Channel{ID: 5, ProjectID: 1}, nil)
	store.On("ListChannelEvents", mock.Anything, int64(5), mock.MatchedBy(func(q models.EventQuery) bool {
		return q.Limit == models.DefaultQueryLimit &&
			q.SortBy == models.SortByDate && q.SortOrder == models.SortDesc
	})).Return([]models.Event{}, nil)
	svc := NewEventService(store, testLogger())

	events, err := svc.ChannelEvents(context.Background(), 5, models.EventQuery{})
	require.NoError(t, err)
	assert.Empty(t, events)
	store.AssertExpectations(t)
}

func TestChannelEventsUnknownChannel(t *testing.T) {
	store := &mockStore{}
	store.On("GetChannel", mock.Anything, int64(9)).
		Return(nil, repository.ErrChannelNotFound)
	svc := NewEventService(store, testLogger())

	_, err := svc.ChannelEvents(context.Background(), 9, models.EventQuery{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeQueryRejections(t *testing.T) {
	cases := []struct {
		name  string
		query models.EventQuery
	}{
		{"after and before", models.EventQuery{AfterID: 1, BeforeID: 2}},
		{"after and offset", models.EventQuery{AfterID: 1, Offset: 10}},
		{"cursor with name sort", models.EventQuery{BeforeID: 2, SortBy: models.SortByName}},
		{"cursor with ascending date", models.EventQuery{AfterID: 1, SortOrder: models.SortAsc}},
		{"bad sort field", models.EventQuery{SortBy: "icon"}},
		{"bad sort order", models.EventQuery{SortOrder: "sideways"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := normalizeQuery(&tc.query)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("before with offset is allowed, offset wins downstream", func(t *testing.T) {
		q := models.EventQuery{BeforeID: 2, Offset: 10}
		assert.NoError(t, normalizeQuery(&q))
	})
}

func TestProjectTags(t *testing.T) {
	store := &mockStore{}
	store.On("GetProject", mock.Anything, int64(1)).
		Return(&models.Project{ID: 1}, nil)
	store.On("ProjectAvailableTags", mock.Anything, int64(1)).
		Return([]models.AvailableTag{{Key: "plan", Values: []string{"free", "pro"}}}, nil)
	svc := NewEventService(store, testLogger())

	tags, err := svc.ProjectTags(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "plan", tags[0].Key)
}
