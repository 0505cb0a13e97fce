package model

import "errors"

// ErrorKind classifies a client-facing failure.
type ErrorKind string

const (
	KindRequiredField   ErrorKind = "required_field"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindNotFound        ErrorKind = "not_found"
	KindInternal        ErrorKind = "internal"
)

// Machine-readable error codes for API responses.
const (
	ErrCodeRequired        = "REQUIRED"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// ErrorContext carries structured metadata about where a failure occurred.
// It is exposed to external consumers only in development mode.
type ErrorContext struct {
	Operation string `json:"operation,omitempty"`
	Resource  string `json:"resource,omitempty"`
	Field     string `json:"field,omitempty"`
}

// AppError is the single error type for all domain failures, tagged with a
// kind rather than dispatched on type identity.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Context *ErrorContext
}

func (e *AppError) Error() string {
	return e.Message
}

// NewRequired creates a RequiredField error for a missing or blank argument.
func NewRequired(message, operation, resource, field string) *AppError {
	return &AppError{
		Kind:    KindRequiredField,
		Code:    ErrCodeRequired,
		Message: message,
		Context: &ErrorContext{Operation: operation, Resource: resource, Field: field},
	}
}

// NewInvalidArgument creates an InvalidArgument error for a well-formed but
// unacceptable argument value.
func NewInvalidArgument(message, operation, resource, field string) *AppError {
	return &AppError{
		Kind:    KindInvalidArgument,
		Code:    ErrCodeInvalidArgument,
		Message: message,
		Context: &ErrorContext{Operation: operation, Resource: resource, Field: field},
	}
}

// NewNotFound creates a NotFound error for an absent cart, product or coupon.
func NewNotFound(message, operation, resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    ErrCodeNotFound,
		Message: message,
		Context: &ErrorContext{Operation: operation, Resource: resource},
	}
}

// NewInternal creates an opaque internal error. The message is suppressed
// from external consumers outside development mode.
func NewInternal(message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    ErrCodeInternalError,
		Message: message,
	}
}

// AsAppError extracts an *AppError from an error chain, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
