package repository

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateChannel = errors.New("channel name already exists in project")
	ErrDuplicateProject = errors.New("project name already exists")
	ErrDuplicateUser    = errors.New("username already exists")
)
