// Package errors provides structured error types for fractaldraw.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The core emits four codes that describe what went wrong with a single
// level's render:
//   - INVALID_LEVEL: the requested level is outside the supported range
//   - MALFORMED_GRAMMAR: a curve's rules produce unbalanced brackets
//   - STACK_UNDERFLOW: a pop was interpreted with an empty pose stack
//   - RESOURCE_EXHAUSTED: an expansion would exceed the configured bound
//
// The remaining codes cover input validation at the outer surfaces.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLevel, "level %d must be >= 1", level)
//	if errors.Is(err, errors.ErrCodeInvalidLevel) {
//	    // Reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core errors
	ErrCodeInvalidLevel      Code = "INVALID_LEVEL"
	ErrCodeMalformedGrammar  Code = "MALFORMED_GRAMMAR"
	ErrCodeStackUnderflow    Code = "STACK_UNDERFLOW"
	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPalette Code = "INVALID_PALETTE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
func Wrap(code Code, cause error, format string, args ...any) *Error {
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

// LevelError reports a failure scoped to one level of an animation.
// Drivers use it to decide whether to abort the whole run or skip the level.
type LevelError struct {
	Curve string
	Level int
	Err   error
}

// Error implements the error interface.
func (e *LevelError) Error() string {
	return fmt.Sprintf("%s level %d: %v", e.Curve, e.Level, e.Err)
}

// Unwrap returns the underlying error.
func (e *LevelError) Unwrap() error { return e.Err }

// Code returns the code of the underlying error, if any.
func (e *LevelError) Code() Code {
	return GetCode(e.Err)
}
