package service

import "errors"

// Kind sentinels. Handlers map these to HTTP statuses with errors.Is while
// the ServiceError message travels to the client verbatim.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ServiceError pairs a kind sentinel with a client-facing message.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Kind }

func invalidf(msg string) error {
	return &ServiceError{Kind: ErrInvalidInput, Message: msg}
}

func unauthorizedf(msg string) error {
	return &ServiceError{Kind: ErrUnauthorized, Message: msg}
}

func forbiddenf(msg string) error {
	return &ServiceError{Kind: ErrForbidden, Message: msg}
}

func notFoundf(msg string) error {
	return &ServiceError{Kind: ErrNotFound, Message: msg}
}

func conflictf(msg string) error {
	return &ServiceError{Kind: ErrConflict, Message: msg}
}
