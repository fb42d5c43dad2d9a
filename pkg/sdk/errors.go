package opsconsole

import (
	"fmt"
	"net/http"

	"github.com/kailas-cloud/opsconsole/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound       = domain.ErrNotFound
	ErrUnauthorized   = domain.ErrUnauthorized
	ErrUpstream       = domain.ErrUpstream
	ErrInvalidRequest = domain.ErrInvalidRequest
)

// APIError is a non-2xx answer from the console.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("opsconsole: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("opsconsole: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the status to a sentinel so errors.Is works across the wire.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrInvalidRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway:
		return ErrUpstream
	default:
		return nil
	}
}
