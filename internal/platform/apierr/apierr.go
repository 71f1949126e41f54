package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and stable machine code a failure should be
// rendered with at the boundary.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

const (
	CodeValidation     = "validation_failed"
	CodePersistence    = "persistence_error"
	CodeNotFound       = "not_found"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeConflict       = "conflict"
	CodeNoActiveQuiz   = "no_active_attempt"
	CodeUnavailable    = "capability_unavailable"
	CodeInternal       = "internal_error"
	CodeInvalidRequest = "invalid_request"
)

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidation, errors.New(msg))
}

func Persistence(op string, err error) *Error {
	return New(http.StatusInternalServerError, CodePersistence, fmt.Errorf("%s: %w", op, err))
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func Unavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeUnavailable, err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}
