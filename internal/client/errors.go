package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork means the request never got a response: connection failures, timeouts,
	// cancelled contexts.
	ErrNetwork = errors.New("backend request failed")
	// ErrServerRejected means the backend answered with a non-2xx status.
	ErrServerRejected = errors.New("backend rejected request")
	// ErrNotFound means the requested entity does not exist on the backend.
	ErrNotFound = errors.New("entity not found")
	// ErrEmptyResponse means the backend answered 2xx without the record the operation returns.
	ErrEmptyResponse = errors.New("empty response body")
	// ErrInvalidTask means a task payload failed validation before it was sent.
	ErrInvalidTask = errors.New("invalid task payload")
)

// StatusError carries the status code of a rejected backend request.
type StatusError struct {
	Operation string
	Code      int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Operation, e.Code)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Operation, e.Code, e.Body)
}

// Unwrap lets errors.Is match ErrServerRejected for every rejection and ErrNotFound for 404.
func (e *StatusError) Unwrap() []error {
	if e.Code == http.StatusNotFound {
		return []error{ErrServerRejected, ErrNotFound}
	}
	return []error{ErrServerRejected}
}

// IsUnauthorized reports whether err is a backend rejection of the session token.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden
}
