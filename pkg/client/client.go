// Package client is a small Go client for the beaver HTTP API, used by the
// CLI and suitable for embedding in producers.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beaver-systems/beaver/internal/models"
)

// Client talks to one beaver server. AccessToken guards the dashboard
// endpoints; APIKey is only needed for Ingest.
type Client struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	HTTP        *http.Client
}

// New creates a client with a sane default timeout. Streaming requests use
// their own client without one.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Ingest submits one event using the client's api key.
func (c *Client) Ingest(ctx context.Context, name, channel string, tags map[string]interface{}) (*models.Event, error) {
	rawTags, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	req := models.IngestRequest{
		Name:    name,
		Channel: channel,
		APIKey:  c.APIKey,
		Tags:    rawTags,
	}
	var event models.Event
	if err := c.do(ctx, http.MethodPost, "/api/event", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// SignIn authenticates and stores the access token on the client.
func (c *Client) SignIn(ctx context.Context, username, password string) (*models.SignInResponse, error) {
	var resp models.SignInResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signin",
		models.SignInRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.AccessToken = resp.AccessToken
	return &resp, nil
}

// CreateAdmin performs the one-time admin bootstrap.
func (c *Client) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPost, "/api/admin",
		models.CreateAdminRequest{Username: username, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project owned by the signed-in user.
func (c *Client) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, http.MethodPost, "/api/project",
		models.CreateProjectRequest{Name: name}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Channels lists a project's channels.
func (c *Client) Channels(ctx context.Context, projectID int64) ([]models.Channel, error) {
	var channels []models.Channel
	path := fmt.Sprintf("/api/channel?project_id=%d", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// CreateChannel adds a channel to a project.
func (c *Client) CreateChannel(ctx context.Context, projectID int64, name string) (*models.Channel, error) {
	var channel models.Channel
	err := c.do(ctx, http.MethodPost, "/api/channel",
		models.CreateChannelRequest{Name: name, ProjectID: projectID}, &channel)
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// ChannelEvents fetches one page of channel events.
func (c *Client) ChannelEvents(ctx context.Context, channelID int64, q models.EventQuery) ([]models.Event, error) {
	path := fmt.Sprintf("/api/events/channel/%d?%s", channelID, queryString(q))
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ProjectEvents fetches one page of project events.
func (c *Client) ProjectEvents(ctx context.Context, projectID int64, q models.EventQuery) ([]models.Event, error) {
	path := fmt.Sprintf("/api/events/project/%d?%s", projectID, queryString(q))
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Event fetches a single event by id.
func (c *Client) Event(ctx context.Context, eventID int64) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/event/%d", eventID), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// MaxEventID fetches the newest event id, for seeding a tail cursor.
func (c *Client) MaxEventID(ctx context.Context) (int64, error) {
	var resp models.MaxEventIDResponse
	if err := c.do(ctx, http.MethodGet, "/api/events/max-id", nil, &resp); err != nil {
		return 0, err
	}
	return resp.MaxID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// queryString serializes the query fields the server understands.
func queryString(q models.EventQuery) string {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.AfterID > 0 {
		params.Set("afterId", fmt.Sprint(q.AfterID))
	}
	if q.BeforeID > 0 {
		params.Set("beforeId", fmt.Sprint(q.BeforeID))
	}
	if q.Offset > 0 {
		params.Set("offset", fmt.Sprint(q.Offset))
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}
	if q.StartDate != nil {
		params.Set("startDate", q.StartDate.Format(time.RFC3339))
	}
	if q.EndDate != nil {
		params.Set("endDate", q.EndDate.Format(time.RFC3339))
	}
	if len(q.Tags) > 0 {
		if raw, err := json.Marshal(q.Tags); err == nil {
			params.Set("tags", string(raw))
		}
	}
	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", string(q.SortOrder))
	}
	return params.Encode()
}

// StreamChannel opens the SSE tail of a channel and invokes handle once per
// frame until ctx is cancelled or the server closes the stream.
func (c *Client) StreamChannel(ctx context.Context, channelID int64, q models.EventQuery, handle func([]models.Event) error) error {
	path := fmt.Sprintf("/api/events/channel/%d/stream?%s", channelID, queryString(q))
	return c.stream(ctx, path, handle)
}

// StreamProject opens the SSE tail of a project.
func (c *Client) StreamProject(ctx context.Context, projectID int64, q models.EventQuery, handle func([]models.Event) error) error {
	path := fmt.Sprintf("/api/events/project/%d/stream?%s", projectID, queryString(q))
	return c.stream(ctx, path, handle)
}

func (c *Client) stream(ctx context.Context, path string, handle func([]models.Event) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	// No client timeout: the connection lives until cancelled.
	streamClient := &http.Client{Transport: c.HTTP.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var errorFrame bool
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			errorFrame = false
		case strings.HasPrefix(line, "event: error"):
			errorFrame = true
		case strings.HasPrefix(line, "data: "):
			if errorFrame {
				return fmt.Errorf("stream error: %s", strings.TrimPrefix(line, "data: "))
			}
			var batch []models.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &batch); err != nil {
				return fmt.Errorf("malformed stream frame: %w", err)
			}
			if err := handle(batch); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}
