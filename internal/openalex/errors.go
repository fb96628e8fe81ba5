package openalex

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the OpenAlex client.
var (
	// ErrNotFound indicates the author or work does not exist.
	ErrNotFound = errors.New("not found in OpenAlex")

	// ErrAuthError indicates a rejected API key.
	ErrAuthError = errors.New("OpenAlex authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("OpenAlex rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with OpenAlex")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from OpenAlex")
)

// APIError represents a non-2xx response from the OpenAlex API.
type APIError struct {
	StatusCode int
	Code       string // "not_found", "api_error"
	Message    string
	Path       string // request path, for context
}

func (e *APIError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("OpenAlex API error (status %d, code %s): %s (path: %s)", e.StatusCode, e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("OpenAlex API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == "not_found"
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
