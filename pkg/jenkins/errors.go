package jenkins

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAccessDenied is matched by a StatusError carrying a 403.
	ErrAccessDenied = errors.New("access denied")

	// ErrJobExists is returned when createItem is rejected by the server.
	ErrJobExists = errors.New("job already exists")

	// ErrSuiteNotFound is returned for an unknown test suite index.
	ErrSuiteNotFound = errors.New("test suite not found")
)

// TransportError is returned when a request could not be completed at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned when Jenkins answered with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusForbidden {
		return fmt.Sprintf("access denied [HTTP status code 403] to %s", e.URL)
	}

	return fmt.Sprintf("unexpected status %q for %s %s", e.Status, e.Method, e.URL)
}

// Is reports 403 responses as ErrAccessDenied.
func (e *StatusError) Is(target error) bool {
	return target == ErrAccessDenied && e.StatusCode == http.StatusForbidden
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigError is returned when an unknown environment is requested.
type ConfigError struct {
	Env string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown environment config: %s", e.Env)
}

// StatusCode extracts the HTTP status of a StatusError, 0 otherwise.
func StatusCode(err error) int {
	var serr *StatusError

	if errors.As(err, &serr) {
		return serr.StatusCode
	}

	return 0
}
