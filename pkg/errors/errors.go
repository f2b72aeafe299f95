package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrConflict
	ErrTransition
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error code to the status the handlers return.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest, ErrTransition:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// Forbidden is the uniform denial for out-of-scope access. The message stays
// generic so cross-tenant existence never leaks through it.
func Forbidden() *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "access denied",
	}
}

// Conflict signals a uniqueness-constraint violation surfaced by storage.
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

// Transition signals a status change outside the entity's transition table.
// It always names the attempted (from, to) pair.
func Transition(from, to string) *AppError {
	return &AppError{
		Code:    ErrTransition,
		Message: fmt.Sprintf("invalid transition from %q to %q", from, to),
	}
}

// TransitionRequires signals a transition that is in the table but was
// attempted without a mandatory field. Like Transition it names the pair.
func TransitionRequires(from, to, field string) *AppError {
	return &AppError{
		Code:    ErrTransition,
		Message: fmt.Sprintf("transition from %q to %q requires %s", from, to, field),
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// As unwraps err into an *AppError when possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsConflict reports whether err carries the conflict code.
func IsConflict(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrConflict
}

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrNotFound
}
