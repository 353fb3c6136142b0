package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any HTTPError with status 404.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized matches any HTTPError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError is a non-2xx response from the service.
type HTTPError struct {
	Op         string
	StatusCode int
	// Message is the server's error message, or the raw body when it was not JSON.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is lets callers use errors.Is(err, ErrNotFound) and errors.Is(err, ErrUnauthorized).
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsValidation reports whether err is a 400 rejection from the service.
func IsValidation(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusBadRequest
}
