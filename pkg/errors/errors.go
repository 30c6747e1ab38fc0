// Package errors provides typed errors for cache-flush
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrCache indicates a cache backend error
	ErrCache
	// ErrValidation indicates an input validation error
	ErrValidation
	// ErrTimeout indicates a timeout occurred
	ErrTimeout
)

// ToolkitError is the base error type for all cache-flush errors
type ToolkitError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *ToolkitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *ToolkitError) Unwrap() error {
	return e.Cause
}

// New creates a new ToolkitError
func New(errType ErrorType, message string, cause error) *ToolkitError {
	return &ToolkitError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *ToolkitError) WithContext(key string, value interface{}) *ToolkitError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var tkErr *ToolkitError
	if err == nil {
		return false
	}
	if errors.As(err, &tkErr) {
		return tkErr.Type == errType
	}
	return false
}

// IsRetryable returns true if the error is transient and the next
// scheduled run may succeed.
func IsRetryable(err error) bool {
	var tkErr *ToolkitError
	if !errors.As(err, &tkErr) {
		return false
	}

	switch tkErr.Type {
	case ErrCache, ErrTimeout:
		return true
	default:
		return false
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrConfig:
		return "CONFIG"
	case ErrCache:
		return "CACHE"
	case ErrValidation:
		return "VALIDATION"
	case ErrTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *ToolkitError {
	return New(ErrConfig, message, cause)
}

// CacheError creates a cache backend error
func CacheError(message string, cause error) *ToolkitError {
	return New(ErrCache, message, cause)
}

// ValidationError creates a validation error
func ValidationError(message string, cause error) *ToolkitError {
	return New(ErrValidation, message, cause)
}

// TimeoutError creates a timeout error
func TimeoutError(message string, cause error) *ToolkitError {
	return New(ErrTimeout, message, cause)
}
