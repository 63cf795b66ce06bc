package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for transport mapping.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "not_found"
	CodeInvalidInput ErrorCode = "invalid_input"
	CodeUnavailable  ErrorCode = "unavailable"
	CodeInternal     ErrorCode = "internal"
)

// DomainError carries a stable code alongside a human message and the
// wrapped cause.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewNotFound builds a not-found error.
func NewNotFound(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

// NewInvalidInput builds a bad-request error.
func NewInvalidInput(message string) *DomainError {
	return &DomainError{Code: CodeInvalidInput, Message: message}
}

// NewUnavailable wraps a dependency outage.
func NewUnavailable(message string, err error) *DomainError {
	return &DomainError{Code: CodeUnavailable, Message: message, Err: err}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, err error) *DomainError {
	return &DomainError{Code: CodeInternal, Message: message, Err: err}
}

// AsDomainError extracts a DomainError from an error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HTTPStatus maps an error code to an HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
