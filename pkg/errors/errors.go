// Package errors provides structured error types for the samplesize engine.
//
// This package defines error codes and types that enable:
//   - Returning calculation failures as tagged results instead of panics
//   - Machine-readable error codes for the CLI, TUI and HTTP API
//   - Naming the offending input so a UI can point at it
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Domain codes are produced by the calculators themselves:
//   - INFINITE_SAMPLE_SIZE: the effect size implies no detectable difference
//   - IMPOSSIBLE_INPUTS: a derived proportion left its valid range
//   - EQUAL_PROPORTIONS, EQUAL_MEANS: the compared groups do not differ
//   - INVALID_RATIO: the allocation ratio is not positive
//
// INVALID_* codes are input validation failures, NON_FINITE flags a
// formula that produced NaN or ±Inf from malformed input.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRatio, "allocation ratio must be positive, got %v", r)
//	if errors.Is(err, errors.ErrCodeInvalidRatio) {
//	    // Ask the user for a different ratio
//	}
//
//	// Name the offending quantity
//	err := errors.NewField(errors.ErrCodeImpossibleInputs, "p1", "proportion exposed in cases is %.4f", p1)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Calculation outcomes without a finite answer
	ErrCodeInfiniteSampleSize Code = "INFINITE_SAMPLE_SIZE"
	ErrCodeImpossibleInputs   Code = "IMPOSSIBLE_INPUTS"
	ErrCodeEqualProportions   Code = "EQUAL_PROPORTIONS"
	ErrCodeEqualMeans         Code = "EQUAL_MEANS"
	ErrCodeInvalidRatio       Code = "INVALID_RATIO"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidDesign Code = "INVALID_DESIGN"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeNonFinite Code = "NON_FINITE"
	ErrCodeInternal  Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending input or derived quantity (optional)
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

// NewField creates a new Error that names the offending quantity.
func NewField(code Code, field, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
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

// GetField extracts the offending field name from an error, if available.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
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

// IsDomain reports whether err is one of the calculation outcomes that
// signal "no finite answer for these inputs" rather than a malformed request.
func IsDomain(err error) bool {
	return GetCode(err).Domain()
}

// Domain reports whether c is a calculation outcome code.
func (c Code) Domain() bool {
	switch c {
	case ErrCodeInfiniteSampleSize, ErrCodeImpossibleInputs,
		ErrCodeEqualProportions, ErrCodeEqualMeans, ErrCodeInvalidRatio:
		return true
	}
	return false
}
