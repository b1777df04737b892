package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies the failures the application can report
type ErrorType string

const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeUnauthorized       ErrorType = "unauthorized"
	ErrorTypeDatabase           ErrorType = "database_unavailable"
	ErrorTypeFetch              ErrorType = "fetch"
	ErrorTypeParsing            ErrorType = "parsing"
	ErrorTypeEmptyResult        ErrorType = "empty_result"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Error carries a type, a caller-facing message and an optional status code
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error with no status code.
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// NewWithCode creates a typed error carrying an HTTP or transport status code.
func NewWithCode(t ErrorType, message string, code int) *Error {
	return &Error{Type: t, Message: message, Code: code}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for untyped errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsBenign reports whether the error should degrade to an empty result
// instead of surfacing as a server failure. Scrape failures and empty
// extractions never become 5xx responses.
func IsBenign(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeFetch, ErrorTypeEmptyResult:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error type to the status code the API reports.
func HTTPStatus(t ErrorType) int {
	switch t {
	case ErrorTypeInvalidCredentials, ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeDatabase:
		return http.StatusServiceUnavailable
	case ErrorTypeFetch, ErrorTypeEmptyResult:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
