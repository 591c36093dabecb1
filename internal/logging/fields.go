package logging

import "log/slog"

// Common field names for consistent logging.
const (
	FieldService   = "service"
	FieldUserID    = "user_id"
	FieldProjectID = "project_id"
	FieldChannelID = "channel_id"
	FieldEventID   = "event_id"
	FieldCursor    = "cursor"
	FieldIP        = "ip"
	FieldError     = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// UserID returns a slog attribute for a user id.
func UserID(id int64) slog.Attr {
	return slog.Int64(FieldUserID, id)
}

// ProjectID returns a slog attribute for a project id.
func ProjectID(id int64) slog.Attr {
	return slog.Int64(FieldProjectID, id)
}

// ChannelID returns a slog attribute for a channel id.
func ChannelID(id int64) slog.Attr {
	return slog.Int64(FieldChannelID, id)
}

// EventID returns a slog attribute for an event id.
func EventID(id int64) slog.Attr {
	return slog.Int64(FieldEventID, id)
}

// Cursor returns a slog attribute for a tail cursor.
func Cursor(id int64) slog.Attr {
	return slog.Int64(FieldCursor, id)
}

// IP returns a slog attribute for a client address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
