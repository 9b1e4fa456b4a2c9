// Package errors provides domain-specific errors for the ventasync application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain error conditions.
var (
	ErrNotInitialized = errors.New("storage engine not initialized")
	ErrNotFound       = errors.New("record not found")
	ErrCycleInFlight  = errors.New("sync cycle already in flight")
	ErrEndpointNotSet = errors.New("remote endpoint not configured")
)

// ErrorCode categorizes errors for handling and reporting.
type ErrorCode string

const (
	CodeValidation     ErrorCode = "VALIDATION"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	CodeTransport      ErrorCode = "TRANSPORT"

	// CodeConflict is reserved for a future user-mediated conflict
	// resolution extension. The baseline reconciliation engine always
	// auto-resolves via last-writer-wins and never raises it.
	CodeConflict ErrorCode = "CONFLICT"
)

// VentasyncError wraps errors with additional context for debugging and handling.
type VentasyncError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns a formatted error string including the code, message, and cause if present.
func (e *VentasyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *VentasyncError) Unwrap() error {
	return e.Cause
}

// NewError creates a new VentasyncError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *VentasyncError {
	return &VentasyncError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code of err if it carries one, or an empty code.
func CodeOf(err error) ErrorCode {
	var ve *VentasyncError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsNotFound reports whether err represents a missing or soft-deleted record.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound || errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err represents a business-rule violation.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsTransport reports whether err represents a network or remote failure.
func IsTransport(err error) bool {
	return CodeOf(err) == CodeTransport
}

// IsNotInitialized reports whether err represents a failed or missing
// storage engine initialization.
func IsNotInitialized(err error) bool {
	return CodeOf(err) == CodeNotInitialized || errors.Is(err, ErrNotInitialized)
}

// Is reports whether err matches target using errors.Is semantics.
// This is a convenience wrapper around the standard library's errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target and sets target to that error value.
// This is a convenience wrapper around the standard library's errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
