// Package errors provides structured error types for topodraw.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the builder, renderer and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by where they originate:
//   - Builder errors: DUPLICATE_IDENTIFIER, UNKNOWN_NODE, CLUSTER_SEALED
//   - Input validation: INVALID_*
//   - Rendering: RENDER_FAILURE, UNKNOWN_CATEGORY
//   - Everything else: INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "node %q is not part of diagram %q", id, title)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle missing endpoint
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailure, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Builder errors
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeUnknownNode         Code = "UNKNOWN_NODE"
	ErrCodeClusterSealed       Code = "CLUSTER_SEALED"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidFilename  Code = "INVALID_FILENAME"
	ErrCodeInvalidCatalog   Code = "INVALID_CATALOG"

	// Resource not found errors
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeUnknownCategory Code = "UNKNOWN_CATEGORY"

	// Rendering errors
	ErrCodeRenderFailure Code = "RENDER_FAILURE"

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
// The outermost *Error decides; nested codes are not consulted.
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

// IsBuildError reports whether err was raised while assembling a diagram
// rather than while rendering it.
func IsBuildError(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateIdentifier, ErrCodeUnknownNode, ErrCodeClusterSealed:
		return true
	}
	return false
}
