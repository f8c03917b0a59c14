package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx backend response. Message is the backend's own
// message string; no structured codes are defined.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// StatusOf reports the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// clientFault reports 4xx responses; they say nothing about backend health.
func clientFault(err error) bool {
	status := StatusOf(err)
	return status >= 400 && status < 500
}
