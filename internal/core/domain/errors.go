// Package domain defines the core domain models for pollrelay.
package domain

import (
	"errors"
	"fmt"
)

// RelayError represents a business domain error with a structured code.
//
// The four client-input errors (session conflict, missing credentials,
// unknown session, invalid secret) are surfaced synchronously to the
// caller; eviction by liveness timeout is a normal lifecycle transition
// and never an error.
type RelayError struct {
	Code    string // Error code (e.g., "PR-SESS-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *RelayError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two RelayErrors match on Code.
func (e *RelayError) Is(target error) bool {
	t, ok := target.(*RelayError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewRelayError creates a new RelayError with the given code and message.
func NewRelayError(code, message string) *RelayError {
	return &RelayError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *RelayError) WithDetails(details string) *RelayError {
	return &RelayError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *RelayError) WithCause(cause error) *RelayError {
	return &RelayError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsRelayError checks if an error is a RelayError with the given code.
// If code is empty, it only checks if the error is a RelayError.
func IsRelayError(err error, code string) bool {
	var re *RelayError
	if errors.As(err, &re) {
		if code == "" {
			return true
		}
		return re.Code == code
	}
	return false
}

// ErrorCode extracts the error code from an error if it's a RelayError.
func ErrorCode(err error) string {
	var re *RelayError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// Session errors (SESS).
var (
	// ErrSessionExists indicates the requested id is already registered.
	ErrSessionExists = NewRelayError("PR-SESS-4090", "session id already registered")

	// ErrUnknownSession indicates the id is not registered (or was evicted).
	ErrUnknownSession = NewRelayError("PR-SESS-4040", "unknown session")
)

// Authentication errors (AUTH).
var (
	// ErrMissingCredentials indicates the id or secret header was absent.
	ErrMissingCredentials = NewRelayError("PR-AUTH-4010", "credentials not provided")

	// ErrInvalidSecret indicates the presented secret does not match.
	ErrInvalidSecret = NewRelayError("PR-AUTH-4011", "invalid secret")

	// ErrAdminDenied indicates a missing or wrong admin token.
	ErrAdminDenied = NewRelayError("PR-ADMIN-4030", "admin token required")
)

// System errors (SYS).
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewRelayError("PR-SYS-5000", "internal server error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewRelayError("PR-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewRelayError("PR-SYS-4290", "too many requests")
)

// Argument errors (ARG).
var (
	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewRelayError("PR-ARG-1002", "missing required argument")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewRelayError("PR-ARG-1001", "invalid argument")
)
