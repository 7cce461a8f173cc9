// Package errors provides structured error types for the boardgen engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Configuration-level codes (NO_SOURCE_CONFIGURED, INVALID_*) are fatal to
// a whole batch and surface before any host call is made. SOURCE_NOT_FOUND
// and HOST_OPERATION are scoped to a single requested size; the batch
// records them and continues. LAYOUT signals a packer invariant violation
// and should be treated as a programming defect.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSize, "size %q: width must be positive", name)
//	if errors.Is(err, errors.ErrCodeInvalidSize) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeHostOperation, origErr, "resize %s", ref.ID)
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
	ErrCodeInvalidSize   Code = "INVALID_SIZE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidUnit   Code = "INVALID_UNIT"

	// Configuration errors (batch-fatal)
	ErrCodeNoSourceConfigured Code = "NO_SOURCE_CONFIGURED"

	// Per-size generation errors
	ErrCodeSourceNotFound Code = "SOURCE_NOT_FOUND"
	ErrCodeHostOperation  Code = "HOST_OPERATION"

	// Packer invariant violation; a programming-defect signal
	ErrCodeLayout Code = "LAYOUT"

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

// IsFatal reports whether an error should abort a whole batch rather than
// a single size. Configuration and validation errors are fatal; per-size
// generation errors are not.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoSourceConfigured, ErrCodeInvalidSize, ErrCodeInvalidConfig, ErrCodeInvalidUnit:
		return true
	}
	return false
}
