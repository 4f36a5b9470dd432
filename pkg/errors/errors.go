package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the different classes of failure the application reports
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeRemote        ErrorType = "remote"
	ErrorTypeNetwork       ErrorType = "network"
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// Error represents an application error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by type, so sentinel errors can be compared with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Code == 0 || t.Code == e.Code) && (t.Message == "" || t.Message == e.Message)
}

// New creates an error of the given type
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates an error of the given type around a cause
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// Remote creates an error for a non-2xx response
func Remote(statusCode int, message string) *Error {
	return &Error{Type: ErrorTypeRemote, Message: message, Code: statusCode}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// Retryable reports whether the failure is worth another attempt
func (e *Error) Retryable() bool {
	if e.Type == ErrorTypeRemote {
		return IsRetryableStatusCode(e.Code)
	}
	return IsRetryable(e.Type)
}

// As is errors.As, re-exported so callers importing this package don't need both
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeInput, ErrorTypeConfiguration, ErrorTypeParsing, ErrorTypeStorage:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
