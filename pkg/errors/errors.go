package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeAuthentication     ErrorType = "authentication"
	ErrorTypeTokenNotReady      ErrorType = "token_not_ready"
	ErrorTypeInvalidTokenFormat ErrorType = "invalid_token_format"
	ErrorTypeHTTP               ErrorType = "http"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeInternal           ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError creates a new authentication error (no or invalid session)
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewTokenNotReadyError creates a transient error for a session whose token
// issuance is still pending. Callers should treat it as "try again later".
func NewTokenNotReadyError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeTokenNotReady,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInvalidTokenFormatError creates an error for a credential whose shape is
// neither a signed token (3 segments) nor an encrypted token (5 segments)
func NewInvalidTokenFormatError(segments int) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidTokenFormat,
		Message:    fmt.Sprintf("token has %d segments, expected 3 or 5", segments),
		StatusCode: http.StatusInternalServerError,
		Details:    map[string]interface{}{"segments": segments},
	}
}

// NewHTTPError creates an error for a non-2xx backend response
func NewHTTPError(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{
		Type:       ErrorTypeHTTP,
		Message:    message,
		StatusCode: status,
	}
}

// NewNetworkError creates an error for a request that never completed
func NewNetworkError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == t
	}
	return false
}

// IsTokenNotReady reports whether err is the transient token-not-ready condition
func IsTokenNotReady(err error) bool {
	return IsType(err, ErrorTypeTokenNotReady)
}

// IsAuthentication reports whether err is a hard session failure
func IsAuthentication(err error) bool {
	return IsType(err, ErrorTypeAuthentication)
}

// IsRetryable reports whether the error is transient and worth another attempt
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypeTokenNotReady || appErr.Type == ErrorTypeNetwork
	}
	return false
}

// HTTPStatus returns the status code carried by err, or 0 when err is not an HTTP error
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.Type == ErrorTypeHTTP {
		return appErr.StatusCode
	}
	return 0
}

// ErrorResponse represents the JSON error response
type ErrorResponse struct {
	Error struct {
		Type      ErrorType              `json:"type"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details,omitempty"`
		RequestID string                 `json:"request_id,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
