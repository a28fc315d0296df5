package utils

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced by a service wraps exactly one of these.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrCapacityExceeded  = fmt.Errorf("capacity exceeded: %w", ErrInvalidTransition)
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrInternal          = errors.New("internal error")
)

// AppError carries an error kind, a user-visible message and an optional cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewAppError(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func NewUnauthenticatedError(message string) *AppError {
	return NewAppError(ErrUnauthenticated, message)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message)
}

func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrNotFound, resource+" not found")
}

func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(ErrInvalidArgument, message)
}

func NewInvalidTransitionError(message string) *AppError {
	return NewAppError(ErrInvalidTransition, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message)
}

func NewRateLimitedError(message string) *AppError {
	return NewAppError(ErrRateLimited, message)
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: ErrInternal, Message: ErrMsgInternalServer, Err: err}
}

// ErrorMessage returns the user-visible message of err.
func ErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrMsgInternalServer
}
