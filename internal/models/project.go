package models

import "time"

// Project owns channels and carries the opaque bearer credential external
// producers use to push events.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"apiKey"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Channel is a named subdivision of a project's event stream. Names are
// unique within a project.
type Channel struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ProjectID   int64     `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
}
