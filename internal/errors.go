package internal

import (
	"errors"
	"fmt"
)

// AuthRequiredError signals that the session token is missing, invalid,
// or expired. Observing it anywhere must funnel into a single session
// invalidation (SessionManager.Logout).
type AuthRequiredError struct {
	Reason string
}

func (e *AuthRequiredError) Error() string {
	if e.Reason == "" {
		return "authentication required"
	}
	return fmt.Sprintf("authentication required: %s", e.Reason)
}

// ValidationError represents a client-side input check failure. No
// backend call is made for these.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RequestError represents a request the backend rejected with a
// non-success status. Message is surfaced to the user as-is.
type RequestError struct {
	Message string
	Status  int
}

func (e *RequestError) Error() string {
	return e.Message
}

// NetworkError represents a transport-level failure (no response).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// InvalidResponseError represents a malformed or unexpected backend
// payload. The contract is tightened at the API boundary: any deviation
// from the documented response schema lands here instead of being
// probed for alternate field names.
type InvalidResponseError struct {
	Endpoint string
	Reason   string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.Endpoint, e.Reason)
}

// IsAuthRequired reports whether err is (or wraps) an AuthRequiredError.
func IsAuthRequired(err error) bool {
	var authErr *AuthRequiredError
	return errors.As(err, &authErr)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
