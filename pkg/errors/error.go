// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration, walk-forward specs
//   - Data/Resource errors (200-299): Missing files, unrecognized schemas, bad timestamps
//   - Trading errors (500-599): Trade lifecycle contract violations
//   - Backtest errors (600-699): Backtesting engine errors
//   - Callback errors (800-899): Callback execution failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeDataFileOpen, "failed to open data file", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeTradeAlreadyOpen) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Typed errors report their own code; anything else is ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return ErrCodeSchemaUnrecognized
	}

	var tsErr *TimestampError
	if errors.As(err, &tsErr) {
		return ErrCodeTimestampUnparsable
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// SchemaError is returned when a data file header matches neither the OHLCV
// nor the trade-tick layout. Header holds the raw first line of the file.
type SchemaError struct {
	Path   string
	Header string
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(path, header string) *SchemaError {
	return &SchemaError{
		Path:   path,
		Header: header,
	}
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("unrecognized schema in %s: %s", e.Path, e.Header)
}

// IsSchemaError checks if an error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError

	return errors.As(err, &schemaErr)
}

// TimestampError is returned when a timestamp value is neither an epoch
// number nor an ISO-8601 string.
type TimestampError struct {
	Value string
	Cause error
}

// NewTimestampError creates a new TimestampError.
func NewTimestampError(value string, cause error) *TimestampError {
	return &TimestampError{
		Value: value,
		Cause: cause,
	}
}

// Error implements the error interface.
func (e *TimestampError) Error() string {
	return fmt.Sprintf("unrecognized timestamp: %q", e.Value)
}

// Unwrap returns the underlying parse error.
func (e *TimestampError) Unwrap() error {
	return e.Cause
}

// IsTimestampError checks if an error is a TimestampError.
func IsTimestampError(err error) bool {
	var tsErr *TimestampError

	return errors.As(err, &tsErr)
}

// IsInvalidStateError reports whether err signals an attempt to open a trade
// while another one is still open.
func IsInvalidStateError(err error) bool {
	return HasCode(err, ErrCodeTradeAlreadyOpen)
}
