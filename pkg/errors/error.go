// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Config errors (100-199): Invalid backtest configuration, fatal before simulation
//   - Data errors (200-299): Bar series and data loading failures, fatal before simulation
//   - Strategy errors (300-399): Strategy resolution, initialization, and decision errors
//   - Engine errors (400-499): Engine wiring and accounting invariant violations
//   - Report errors (500-599): Report rendering and file writing failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeEmptySeries, "bar series is empty")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeNonPositivePrice, "bar %d has non-positive price", i)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to load bars", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeEmptySeries) { ... }
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
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsConfigError reports whether the error carries a code from the config category.
// Config errors are fatal and abort a run before any simulation state is created.
func IsConfigError(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 200
}

// IsDataError reports whether the error carries a code from the data category.
// Data errors are fatal and abort a run before any simulation state is created.
func IsDataError(err error) bool {
	code := GetCode(err)

	return code >= 200 && code < 300
}

// IsStrategyError reports whether the error carries a code from the strategy category.
func IsStrategyError(err error) bool {
	code := GetCode(err)

	return code >= 300 && code < 400
}

// InvariantError represents a violation of an accounting invariant detected
// mid-run (e.g., a ledger transition that would drive cash negative). These
// indicate a bug in the engine rather than bad input.
type InvariantError struct {
	Op      string // Ledger operation that detected the violation
	Bar     int    // Index of the bar being processed
	Message string // Human-readable message
}

// NewInvariantError creates a new InvariantError.
func NewInvariantError(op string, bar int, message string) *InvariantError {
	return &InvariantError{
		Op:      op,
		Bar:     bar,
		Message: message,
	}
}

// NewInvariantErrorf creates a new InvariantError with a formatted message.
func NewInvariantErrorf(op string, bar int, format string, args ...any) *InvariantError {
	return &InvariantError{
		Op:      op,
		Bar:     bar,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return e.Message
}

// IsInvariantError checks if an error is an InvariantError.
// It uses errors.As to check the error chain.
func IsInvariantError(err error) bool {
	var invariantErr *InvariantError

	return errors.As(err, &invariantErr)
}
