// Package errors provides structured error handling for the user module.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/cineclass/cineclass/internal/types"
)

// ErrorType classifies user errors
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeStore      ErrorType = "store"
)

// Sentinel errors for common scenarios
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("email already registered")
	ErrStore        = errors.New("user store failure")
)

// UserError provides structured error information with context
type UserError struct {
	Type   ErrorType
	Op     string
	UserID string
	Err    error
}

// Error implements the error interface
func (e *UserError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s error in %s [user=%s]: %v", e.Type, e.Op, e.UserID, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *UserError) Unwrap() error {
	return e.Err
}

// AppError returns the API form of the error.
func (e *UserError) AppError() *types.AppError {
	return ToAppError(e)
}

// NotFound reports a missing user.
func NotFound(op, userID string) error {
	return &UserError{Type: ErrorTypeNotFound, Op: op, UserID: userID, Err: ErrUserNotFound}
}

// Invalid reports bad input with a description.
func Invalid(op, format string, args ...interface{}) error {
	return &UserError{Type: ErrorTypeValidation, Op: op, Err: fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))}
}

// EmailTaken reports a duplicate registration.
func EmailTaken(op string) error {
	return &UserError{Type: ErrorTypeConflict, Op: op, Err: ErrEmailTaken}
}

// Store wraps a failed store call.
func Store(op string, err error) error {
	return &UserError{Type: ErrorTypeStore, Op: op, Err: fmt.Errorf("%w: %w", ErrStore, err)}
}

// IsNotFound reports whether err is a missing user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// ToAppError translates a user error into the API error taxonomy.
func ToAppError(err error) *types.AppError {
	var appErr *types.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrUserNotFound):
		var ue *UserError
		id := ""
		if errors.As(err, &ue) {
			id = ue.UserID
		}
		return types.NewNotFoundError("user", id)
	case errors.Is(err, ErrEmailTaken):
		return types.NewConflictError("email already registered")
	case errors.Is(err, ErrInvalidInput):
		v := types.NewValidationError("invalid request", err.Error())
		v.Cause = err
		return v
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewUpstreamError("user store timed out", err)
	case errors.Is(err, ErrStore):
		return types.NewUpstreamError("user store unavailable", err)
	default:
		return types.NewInternalError("user operation failed", err)
	}
}
