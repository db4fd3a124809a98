package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a remote rejection: the server answered with a non-success status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}

	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// Unauthorized reports whether the session is missing or expired.
func (e *APIError) Unauthorized() bool {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusFound, http.StatusSeeOther, http.StatusTemporaryRedirect:
		return true
	}

	return false
}

// TransportError wraps network and timeout failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsRejection reports whether err is a remote rejection.
func IsRejection(err error) bool {
	var aErr *APIError
	return errors.As(err, &aErr)
}
