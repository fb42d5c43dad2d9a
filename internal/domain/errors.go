package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized signals a missing, expired or rejected session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream signals a platform API failure.
	ErrUpstream = errors.New("platform api error")
	// ErrInvalidRequest signals malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
)

// UpstreamStatusError wraps ErrUpstream with the HTTP status the platform answered.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: %s answered %d", ErrUpstream.Error(), e.Endpoint, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstream }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(endpoint string, statusCode int) error {
	return &UpstreamStatusError{Endpoint: endpoint, StatusCode: statusCode}
}
