package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error code
type ErrorCode string

const (
	// Session errors
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"

	// Network / remote store errors
	CodeUnreachable ErrorCode = "UNREACHABLE"
	CodeRemote      ErrorCode = "REMOTE_ERROR"
	CodeDuplicate   ErrorCode = "DUPLICATE_ENTRY"
	CodeRateLimited ErrorCode = "RATE_LIMITED"

	// Offline degraded mode
	CodeOfflineUnavailable ErrorCode = "OFFLINE_UNAVAILABLE"

	// Local cache errors (swallowed at the cache boundary, logged only)
	CodeCache ErrorCode = "CACHE_ERROR"

	// Validation errors
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"

	// Config errors
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// Internal errors
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeUnknown  ErrorCode = "UNKNOWN_ERROR"
)

// DuplicateViolationCode is the provider-specific code the remote store
// returns for a uniqueness violation on (user, movie) watchlist rows.
const DuplicateViolationCode = "23505"

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Unauthenticated creates an error for a missing or invalid session
func Unauthenticated(message string) *AppError {
	return New(CodeUnauthenticated, message)
}

// Unreachable creates an error for a transport-level failure while the
// connectivity signal still reports online
func Unreachable(message string, err error) *AppError {
	return Wrap(err, CodeUnreachable, message)
}

// Remote creates an error for a server-side rejection, keeping the
// provider-specific code around for callers that special-case it
func Remote(providerCode, message string) *AppError {
	if providerCode == DuplicateViolationCode {
		return New(CodeDuplicate, message).WithContext("provider_code", providerCode)
	}
	return New(CodeRemote, message).WithContext("provider_code", providerCode)
}

// OfflineUnavailable creates the error for an offline read with no usable
// cached data
func OfflineUnavailable(resource string) *AppError {
	return New(CodeOfflineUnavailable, fmt.Sprintf("offline and no cached %s available", resource))
}

// CacheError creates a local cache error
func CacheError(message string, err error) *AppError {
	return Wrap(err, CodeCache, message)
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// NotFoundError creates a not found error
func NotFoundError(resource, identifier string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier))
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *AppError {
	if err != nil {
		return Wrap(err, CodeConfig, message)
	}
	return New(CodeConfig, message)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsUnauthenticated checks if an error represents a missing session
func IsUnauthenticated(err error) bool {
	return GetErrorCode(err) == CodeUnauthenticated
}

// IsUnreachable checks if an error is a transport failure eligible for the
// cache-fallback path
func IsUnreachable(err error) bool {
	return GetErrorCode(err) == CodeUnreachable
}

// IsDuplicate checks if an error is the uniqueness-violation condition from
// a duplicate watchlist insert
func IsDuplicate(err error) bool {
	return GetErrorCode(err) == CodeDuplicate
}

// IsOfflineUnavailable checks if an error is the offline-with-no-cache
// condition
func IsOfflineUnavailable(err error) bool {
	return GetErrorCode(err) == CodeOfflineUnavailable
}

// IsRetryable determines if an error is worth retrying. Only catalog proxy
// calls retry; the watchlist store gateway never does.
func IsRetryable(err error) bool {
	switch GetErrorCode(err) {
	case CodeUnreachable, CodeRateLimited:
		return true
	}
	return false
}
