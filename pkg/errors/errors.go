// Package errors provides structured error types for codescape.
//
// Every fallible pipeline stage reports failures as an [*Error] carrying a
// machine-readable [Code]. The run state machine turns these into a failed
// state with the human-readable message from [UserMessage].
//
// # Error Codes
//
//   - INVALID_*: input validation failures (missing folder, bad layout size)
//   - NO_CODE_FILES: the folder holds no file matching the configured extensions
//   - SYMBOL_SOURCE: the language server could not be reached or answered badly
//   - CANCELED: the run was superseded or interrupted
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "folder does not exist: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // surface as input error
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors are fatal for a run and never retried.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidSize   Code = "INVALID_SIZE"
	ErrCodeNoCodeFiles   Code = "NO_CODE_FILES"

	// Collaborator errors are usually recovered locally and only logged.
	ErrCodeSymbolSource Code = "SYMBOL_SOURCE"
	ErrCodeTimeout      Code = "TIMEOUT"

	ErrCodeCanceled Code = "CANCELED"
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

// ValidateExtensions checks a list of file-extension suffixes used to filter
// the codebase. Extensions are given without the leading dot ("go", "swift").
func ValidateExtensions(exts []string) error {
	if len(exts) == 0 {
		return New(ErrCodeInvalidConfig, "at least one file extension is required")
	}
	for _, ext := range exts {
		if ext == "" {
			return New(ErrCodeInvalidConfig, "file extension cannot be empty")
		}
		if strings.HasPrefix(ext, ".") {
			return New(ErrCodeInvalidConfig, "file extension %q must not start with a dot", ext)
		}
		if strings.ContainsAny(ext, "/\\") {
			return New(ErrCodeInvalidConfig, "file extension %q contains a path separator", ext)
		}
	}
	return nil
}

// ValidateSize checks a layout bounding size.
func ValidateSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "layout size must be positive, got %gx%g", width, height)
	}
	return nil
}
