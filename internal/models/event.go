package models

import "time"

// Event is a single logged occurrence in a channel, enriched on read with
// the channel's name and its decoded tag map. Events are immutable once
// created and only disappear transitively through channel or project
// deletion.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	ProjectID   int64     `json:"projectId"`
	ChannelID   int64     `json:"-"`
	ChannelName string    `json:"channelName"`
	CreatedAt   time.Time `json:"createdAt"`
	Tags        TagMap    `json:"tags"`
}

// SortField selects the column an event query orders by.
type SortField string

const (
	SortByDate SortField = "date"
	SortByName SortField = "name"
)

// SortOrder selects the direction an event query orders by.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EventQuery carries the independent optional filters of one bounded event
// read. AfterID, BeforeID and Offset are mutually exclusive pagination
// strategies: AfterID serves the tail protocol, BeforeID serves backward
// pagination under the default order, Offset serves non-default sorts where
// id cursors no longer match the display order.
type EventQuery struct {
	Search    string
	AfterID   int64
	BeforeID  int64
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
	Tags      []TagFilter
	SortBy    SortField
	SortOrder SortOrder
	Limit     int
}

// DefaultQueryLimit bounds queries that do not request an explicit page size.
const DefaultQueryLimit = 100

// IsDefaultOrder reports whether the query uses the newest-first default
// ordering. Tailing is only valid under the default order because streamed
// batches are prepended on the client.
func (q EventQuery) IsDefaultOrder() bool {
	return (q.SortBy == "" || q.SortBy == SortByDate) &&
		(q.SortOrder == "" || q.SortOrder == SortDesc)
}
