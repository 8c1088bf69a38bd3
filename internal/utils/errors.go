// Package utils provides the logging and error handling primitives shared
// across the crawler.
package utils

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures for diagnostics and exit codes.
type ErrorCode string

const (
	// Configuration related errors
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"

	// Fetch related errors
	ErrCodeFetchFailed  ErrorCode = "FETCH_FAILED"
	ErrCodeFetchTimeout ErrorCode = "FETCH_TIMEOUT"

	// Extraction related errors
	ErrCodeNilDocument      ErrorCode = "NIL_DOCUMENT"
	ErrCodeParsingError     ErrorCode = "PARSING_ERROR"
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"

	// Output related errors
	ErrCodeOutputFailed  ErrorCode = "OUTPUT_FAILED"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Validation related errors
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"
)

// ScraperError wraps an underlying error with a code and context message.
type ScraperError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ScraperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ScraperError) Unwrap() error {
	return e.Cause
}

// NewError creates a ScraperError without a cause.
func NewError(code ErrorCode, message string) *ScraperError {
	return &ScraperError{Code: code, Message: message}
}

// WrapError creates a ScraperError around an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *ScraperError {
	return &ScraperError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the error code from an error chain, or empty when the
// chain carries no ScraperError.
func CodeOf(err error) ErrorCode {
	var se *ScraperError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ErrNilDocument is the typed failure surfaced when a caller passes no
// document at all. Content-shape ambiguity never produces this; only a
// contract violation does.
var ErrNilDocument = NewError(ErrCodeNilDocument, "document is nil")
