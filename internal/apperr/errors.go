// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Error is the domain error type carried from services to the transport.
type Error struct {
	Code       Code                // Machine-readable kind
	Message    string              // Human-readable message
	Reason     string              // Optional sub-kind, e.g. token_not_valid
	Fields     map[string][]string // Field-level validation messages
	RetryAfter time.Duration       // Set for throttled errors
	Cause      error               // Wrapped underlying error
}

// Sentinels for errors.Is matching by code.
var (
	ErrValidation     = &Error{Code: CodeValidation}
	ErrAuthentication = &Error{Code: CodeAuthentication}
	ErrNotFound       = &Error{Code: CodeNotFound}
	ErrThrottled      = &Error{Code: CodeThrottled}
)

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return fieldsMessage(e.Fields)
	}
	return strings.ToLower(string(e.Code))
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that keeps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a validation error for a single field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Fields: map[string][]string{field: {message}}}
}

// FieldErrors accumulates validation messages keyed by field.
type FieldErrors map[string][]string

// Add records message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Err returns nil when nothing was recorded, a validation error otherwise.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Fields: map[string][]string(f)}
}

// Authentication creates an authentication error with a reason.
func Authentication(reason, message string) *Error {
	return &Error{Code: CodeAuthentication, Reason: reason, Message: message}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Throttled creates a throttling error that tells the caller how long to wait.
func Throttled(wait time.Duration) *Error {
	seconds := int(wait.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &Error{
		Code:       CodeThrottled,
		Message:    fmt.Sprintf("Request was throttled. Expected available in %d seconds.", seconds),
		RetryAfter: time.Duration(seconds) * time.Second,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of err, or "" when err is not a domain error.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

func fieldsMessage(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fields[k], "; "))
	}
	return strings.Join(parts, ", ")
}
