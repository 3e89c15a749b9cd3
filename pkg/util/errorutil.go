package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the client and the mock API.
const (
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeMalformedCredential = "MALFORMED_CREDENTIAL"
	CodeFetchFailed         = "FETCH_FAILED"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is by Code.
var (
	ErrNotAuthenticated    = &DomainError{Code: CodeNotAuthenticated, Message: "not logged in", HTTPStatus: http.StatusUnauthorized}
	ErrMalformedCredential = &DomainError{Code: CodeMalformedCredential, Message: "malformed credential"}
	ErrFetchFailed         = &DomainError{Code: CodeFetchFailed, Message: "fetch failed"}
	ErrUnauthorized        = &DomainError{Code: CodeUnauthorized, Message: "unauthorized", HTTPStatus: http.StatusUnauthorized}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewNotAuthenticated reports that a fresh synchronization found no valid session.
func NewNotAuthenticated(endpoint string) error {
	return &DomainError{
		Code:       CodeNotAuthenticated,
		Message:    "not logged in",
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"endpoint": endpoint},
	}
}

// NewMalformedCredential wraps a decode failure.
func NewMalformedCredential(err error) error {
	return &DomainError{Code: CodeMalformedCredential, Message: "malformed credential", Err: err}
}

// NewFetchError describes a failed request. status is 0 for transport errors.
func NewFetchError(method, path string, status int, err error) error {
	msg := fmt.Sprintf("%s %s failed", method, path)
	if status > 0 {
		msg = fmt.Sprintf("%s %s returned %d", method, path, status)
	}
	return &DomainError{
		Code:       CodeFetchFailed,
		Message:    msg,
		HTTPStatus: status,
		Details:    map[string]any{"method": method, "path": path},
		Err:        err,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
