// Package errors provides structured error types for influence map operations.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, editor and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes follow the failure taxonomy of the editing core:
//   - CYCLE_REJECTED: a proposed reporting edge would create a cycle
//   - BUILD_FAILURE, DANGLING_REFERENCE: the hierarchy cannot be constructed
//   - IMPORT_PARSE: an import payload is malformed
//   - PERSISTENCE: a store write failed (non-fatal)
//
// All of them are recoverable. None leave the stakeholder history in an
// inconsistent state.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCycleRejected, "%s cannot report to %s", name, manager)
//	if errors.Is(err, errors.ErrCodeCycleRejected) {
//	    // Tell the user, keep the current state
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "save %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Mutation rejections
	ErrCodeCycleRejected Code = "CYCLE_REJECTED"
	ErrCodeDuplicateName Code = "DUPLICATE_NAME"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"

	// Hierarchy construction
	ErrCodeBuildFailure      Code = "BUILD_FAILURE"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"

	// Boundaries
	ErrCodeImportParse   Code = "IMPORT_PARSE"
	ErrCodePersistence   Code = "PERSISTENCE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Lookups
	ErrCodeNotFound Code = "NOT_FOUND"

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
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// A DANGLING_REFERENCE error also matches BUILD_FAILURE, since a dangling
// manager is one way a hierarchy build fails.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		if code == ErrCodeBuildFailure && e.Code == ErrCodeDanglingReference {
			return true
		}
		err = e.Cause
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
