// Package errors provides structured error types for the rstfmt application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and daemon
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map to the formatter's failure taxonomy:
//   - MALFORMED_INPUT: a construct that cannot be represented (carries location)
//   - IDEMPOTENCE_VIOLATION: the renderer's output is not a fixed point
//   - CACHE_CORRUPTION: the persisted result store is unreadable
//   - CHANNEL_ERROR: a daemon request could not be decoded or answered
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown input kind: %s", kind)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(origErr, errors.ErrCodeCacheCorruption, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidWidth  Code = "INVALID_WIDTH"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Per-unit pipeline errors
	ErrCodeMalformedInput       Code = "MALFORMED_INPUT"
	ErrCodeIdempotenceViolation Code = "IDEMPOTENCE_VIOLATION"

	// Persistence errors
	ErrCodeCacheCorruption Code = "CACHE_CORRUPTION"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Daemon transport errors
	ErrCodeChannelError Code = "CHANNEL_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(cause error, code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
