package repository

import (
	"fmt"
	"strings"

	"github.com/beaver-systems/beaver/internal/models"
)

// EventScope binds a query to one channel or one project.
type EventScope struct {
	column string
	id     int64
}

// ChannelScope scopes an event query to a single channel.
func ChannelScope(channelID int64) EventScope {
	return EventScope{column: "e.channel_id", id: channelID}
}

// ProjectScope scopes an event query to a whole project.
func ProjectScope(projectID int64) EventScope {
	return EventScope{column: "e.project_id", id: projectID}
}

const eventColumns = "e.id, e.name, e.description, e.icon, e.project_id, e.channel_id, e.created_at, c.name"

// buildEventQuery composes the scope and every active filter of q into one
// bounded SELECT. Predicates are AND-ed; the pagination bound is exactly one
// of afterId (strictly greater), beforeId (strictly less, only without an
// offset) or offset. Always parameterized, never string-interpolated values.
func buildEventQuery(scope EventScope, q models.EventQuery) (string, []interface{}) {
	var sb strings.Builder
	args := []interface{}{scope.id}

	sb.WriteString("SELECT ")
	sb.WriteString(eventColumns)
	sb.WriteString(" FROM events e JOIN channels c ON e.channel_id = c.id WHERE ")
	sb.WriteString(scope.column)
	sb.WriteString(" = $1")

	// Free-text search: every whitespace-separated term must appear as a
	// substring of the name, in any order. strings.Fields guarantees a
	// whitespace-only search contributes no predicate at all; a naive
	// split would emit an empty pattern that matches everything.
	for _, term := range strings.Fields(q.Search) {
		args = append(args, "%"+term+"%")
		fmt.Fprintf(&sb, " AND e.name ILIKE $%d", len(args))
	}

	if q.AfterID > 0 {
		args = append(args, q.AfterID)
		fmt.Fprintf(&sb, " AND e.id > $%d", len(args))
	}

	// Cursor and offset pagination are mutually exclusive; the id cursor is
	// only meaningful while the display order matches insertion order.
	if q.BeforeID > 0 && q.Offset == 0 {
		args = append(args, q.BeforeID)
		fmt.Fprintf(&sb, " AND e.id < $%d", len(args))
	}

	if q.StartDate != nil {
		args = append(args, *q.StartDate)
		fmt.Fprintf(&sb, " AND e.created_at >= $%d", len(args))
	}

	if q.EndDate != nil {
		args = append(args, *q.EndDate)
		fmt.Fprintf(&sb, " AND e.created_at <= $%d", len(args))
	}

	// Each tag filter is an existence check correlated to the outer event.
	for _, tf := range q.Tags {
		args = append(args, tf.Key, tf.Value)
		fmt.Fprintf(&sb,
			" AND EXISTS (SELECT 1 FROM event_tags t WHERE t.event_id = e.id AND t.key = $%d AND t.value = $%d)",
			len(args)-1, len(args))
	}

	column := "e.created_at"
	if q.SortBy == models.SortByName {
		column = "e.name"
	}
	direction := "DESC"
	if q.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, e.id %s", column, direction, direction)

	limit := q.Limit
	if limit <= 0 {
		limit = models.DefaultQueryLimit
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
