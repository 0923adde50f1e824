package tvdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tvdb configuration")
	// ErrUnauthorized indicates the login exchange was rejected
	ErrUnauthorized = errors.New("unauthorized: authentication unsuccessful")
	// ErrNoData indicates the service answered without usable data
	ErrNoData = errors.New("no data returned")
	// ErrNoResultsFound indicates a search matched no shows
	ErrNoResultsFound = errors.New("no results found")
)

// AuthError is returned by NewClient when the login exchange fails.
type AuthError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("tvdb authentication failed: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match ErrUnauthorized
func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// IsServerError reports whether the login failed on the service side rather than because of the key
func (e *AuthError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// ShowError records a show that failed during a batch
type ShowError struct {
	ShowName string
	Err      error
}

// Error implements the error interface
func (e *ShowError) Error() string {
	return fmt.Sprintf("failed to get details for show %q: %v", e.ShowName, e.Err)
}

func (e *ShowError) Unwrap() error {
	return e.Err
}
