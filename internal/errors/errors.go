// Package errors defines the typed error kinds returned by every backend call and
// session operation. Callers branch on GetCode instead of inspecting messages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data, either caught locally or reported by the backend.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeUnauthorized indicates the backend rejected the bearer token.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the signed-in user lacks permission for the resource.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeRejected indicates a 2xx response whose envelope carried success=false.
	ErrCodeRejected ErrorCode = "rejected"
	// ErrCodeTransport indicates the request never produced an HTTP response.
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeDecode indicates the response body could not be decoded.
	ErrCodeDecode ErrorCode = "decode"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Status is the backend HTTP status when the error came from a response (optional)
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// Rejected creates an error for a backend envelope that reported success=false.
func Rejected(message string) *AppError {
	if message == "" {
		message = "backend rejected the request"
	}
	return New(ErrCodeRejected, message)
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return New(ErrCodeInternal, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// FromStatus maps a non-2xx backend status to an AppError.
func FromStatus(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	code := ErrCodeInternal
	switch {
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = ErrCodeForbidden
	case status == http.StatusConflict:
		code = ErrCodeConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		code = ErrCodeValidation
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		code = ErrCodeTimeout
	}
	return &AppError{Code: code, Message: message, Status: status}
}

// FromTransport classifies an error returned by http.Client.Do.
func FromTransport(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, message)
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, message)
	default:
		return Wrap(err, ErrCodeTransport, message)
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsUnauthorized checks if the backend rejected the credentials.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsRejected checks if the backend envelope reported success=false.
func IsRejected(err error) bool {
	return isCode(err, ErrCodeRejected)
}

// IsTransport checks if the request failed before a response arrived.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// Retryable reports whether showing a retry affordance makes sense for err.
func Retryable(err error) bool {
	switch GetCode(err) {
	case ErrCodeTransport, ErrCodeTimeout, ErrCodeRejected, ErrCodeInternal, ErrCodeDecode:
		return true
	default:
		return false
	}
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the message suitable for display, falling back when err is not an AppError.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
