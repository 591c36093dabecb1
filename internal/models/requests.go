package models

import "encoding/json"

// IngestRequest is the body of POST /api/event. Tags may be a JSON object of
// primitive values or a JSON-encoded string of one; the raw message is kept
// so malformed payloads can be reported distinctly.
type IngestRequest struct {
	Name        string          `json:"name"`
	Channel     string          `json:"channel"`
	APIKey      string          `json:"apiKey"`
	Description *string         `json:"description,omitempty"`
	Icon        *string         `json:"icon,omitempty"`
	Tags        json.RawMessage `json:"tags,omitempty"`
}

// CreateProjectRequest is the body of POST /api/project.
type CreateProjectRequest struct {
	Name string `json:"name"`
}

// DeleteProjectRequest is the body of DELETE /api/project.
type DeleteProjectRequest struct {
	ProjectID int64 `json:"projectID"`
}

// DeleteProjectResponse returns the requester's remaining projects.
type DeleteProjectResponse struct {
	Projects []Project `json:"projects"`
}

// CreateChannelRequest is the body of POST /api/channel.
type CreateChannelRequest struct {
	Name        string  `json:"name"`
	ProjectID   int64   `json:"project_id"`
	Description *string `json:"description,omitempty"`
}

// DeleteChannelRequest is the body of DELETE /api/channel.
type DeleteChannelRequest struct {
	ChannelID int64 `json:"channelID"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse carries the minted credentials for one session.
type SignInResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse carries a fresh access token and the rotated refresh
// token that replaces the one just spent.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// CreateAdminRequest is the body of POST /api/admin, the one-time onboarding
// call that creates the first administrator.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MaxEventIDResponse is the body of GET /api/events/max-id, used by clients
// to seed the tail cursor before opening a stream.
type MaxEventIDResponse struct {
	MaxID int64 `json:"maxId"`
}
