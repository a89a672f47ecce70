// Package errors provides structured error types for pomrewrite.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes fall into three groups:
//   - INVALID_*, PARENT_CYCLE, FILE_NOT_FOUND: configuration errors, fatal for the
//     unit of work they affect (a rule file, a manifest, one transformation)
//   - *_NOT_FOUND resolution gaps: parent descriptor or repository version missing;
//     the transformer reports these as warnings rather than failing
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRule, "%s:%d: bad pattern %q", file, line, tok)
//	if errors.Is(err, errors.ErrCodeInvalidRule) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidPOM, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidRule       Code = "INVALID_RULE"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidPOM        Code = "INVALID_POM"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidDependency Code = "INVALID_DEPENDENCY"
	ErrCodeParentCycle       Code = "PARENT_CYCLE"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Resolution gaps
	ErrCodeParentNotFound  Code = "PARENT_NOT_FOUND"
	ErrCodeVersionNotFound Code = "VERSION_NOT_FOUND"

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

// IsConfiguration reports whether err is a configuration error, i.e. one
// that will not go away by retrying and must be fixed in the input.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRule, ErrCodeInvalidManifest,
		ErrCodeInvalidPath, ErrCodeInvalidPOM, ErrCodeInvalidConfig,
		ErrCodeInvalidDependency, ErrCodeParentCycle, ErrCodeFileNotFound:
		return true
	}
	return false
}
