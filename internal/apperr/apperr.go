// Package apperr defines the error taxonomy shared by extraction, export and
// the HTTP surface.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Request errors
	ErrorTypeValidation             ErrorType = "VALIDATION"
	ErrorTypeNotFound               ErrorType = "NOT_FOUND"
	ErrorTypeUnsupportedFormat      ErrorType = "UNSUPPORTED_FORMAT"
	ErrorTypeUnsupportedNetworkType ErrorType = "UNSUPPORTED_NETWORK_TYPE"

	// Model errors
	ErrorTypeMalformedModel ErrorType = "MALFORMED_MODEL"

	// Export errors
	ErrorTypeSerialization ErrorType = "SERIALIZATION"
	ErrorTypeInternal      ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType      `json:"type"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
	HTTPStatus int            `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("%s not found", resource), HTTPStatus: http.StatusNotFound}
}

func NewUnsupportedFormatError(format string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedFormat,
		Message:    fmt.Sprintf("unsupported network format %q", format),
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewUnsupportedNetworkTypeError(kind string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedNetworkType,
		Message:    fmt.Sprintf("unsupported network type %q", kind),
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMalformedModelError reports a model document that cannot be used at all.
// Single malformed reactions are absorbed as diagnostics instead.
func NewMalformedModelError(message string) *AppError {
	return &AppError{Type: ErrorTypeMalformedModel, Message: message, HTTPStatus: http.StatusUnprocessableEntity}
}

func NewSerializationError(format, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeSerialization,
		Message:    fmt.Sprintf("%s: %s", format, message),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// HTTPStatus returns the status an error should be reported with.
func HTTPStatus(err error) int {
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return &AppError{
			Type:       appErr.Type,
			Message:    fmt.Sprintf("%s: %s", message, appErr.Message),
			Details:    appErr.Details,
			Cause:      appErr.Cause,
			HTTPStatus: appErr.HTTPStatus,
		}
	}
	return NewInternalError(message).WithCause(err)
}
