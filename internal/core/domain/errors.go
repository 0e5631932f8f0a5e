// Package domain defines the core domain models for grcbridge.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a business domain error with a structured error code.
type Error struct {
	Code    string // Error code (e.g., "GB-TOPO-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// ErrorCode extracts the error code from an error if it carries one.
func ErrorCode(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Err.Code
	}
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Err.Code
	}
	return ""
}

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAuthFailed indicates the platform rejected the configured credentials.
	ErrAuthFailed = NewError("GB-AUTH-4010", "authentication failed")

	// ErrSessionExpired indicates the session lease has lapsed.
	ErrSessionExpired = NewError("GB-AUTH-4011", "session expired")
)

// ============================================================================
// Topology Errors (TOPO)
// ============================================================================

var (
	// ErrContainerNotFound indicates no container matched a name or alias.
	ErrContainerNotFound = NewError("GB-TOPO-4040", "container not found")

	// ErrUnsupportedPath indicates a container has no viable retrieval path.
	ErrUnsupportedPath = NewError("GB-TOPO-4000", "container has no retrieval path")
)

// ============================================================================
// Retrieval Errors (RETR)
// ============================================================================

var (
	// ErrRecordNotFound indicates no record matched the requested identifier.
	ErrRecordNotFound = NewError("GB-RETR-4040", "record not found")

	// ErrRetrievalExhausted indicates every retrieval strategy failed.
	ErrRetrievalExhausted = NewError("GB-RETR-5000", "all retrieval strategies failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an internal error.
	ErrInternal = NewError("GB-SYS-5000", "internal error")

	// ErrVendorUnavailable indicates the platform did not answer.
	ErrVendorUnavailable = NewError("GB-SYS-5030", "platform unavailable")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewError("GB-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewError("GB-ARG-1002", "missing required argument")
)

// NotFoundError reports a container that could not be resolved, together
// with the names of containers that are resolvable, so callers can offer
// suggestions.
type NotFoundError struct {
	Err            *Error
	Requested      string
	AvailableNames []string
}

// NewNotFound creates a NotFoundError for a failed container resolution.
func NewNotFound(requested string, available []string) *NotFoundError {
	return &NotFoundError{
		Err:            ErrContainerNotFound,
		Requested:      requested,
		AvailableNames: available,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.AvailableNames) == 0 {
		return fmt.Sprintf("%s: %q", e.Err.Error(), e.Requested)
	}
	return fmt.Sprintf("%s: %q (available: %s)",
		e.Err.Error(), e.Requested, strings.Join(e.AvailableNames, ", "))
}

// Unwrap returns the underlying structured error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// RetrievalError reports an exhausted fallback chain. It carries the
// retrieval path that was attempted and the last underlying cause.
type RetrievalError struct {
	Err   *Error
	Path  string
	Cause error
}

// NewRetrievalError creates a RetrievalError for an exhausted fallback chain.
func NewRetrievalError(path string, cause error) *RetrievalError {
	return &RetrievalError{
		Err:   ErrRetrievalExhausted,
		Path:  path,
		Cause: cause,
	}
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: path %q: %v", e.Err.Error(), e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: path %q", e.Err.Error(), e.Path)
}

// Unwrap returns the underlying cause chain.
func (e *RetrievalError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Err
}

// Is matches a RetrievalError against the ErrRetrievalExhausted sentinel.
func (e *RetrievalError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
