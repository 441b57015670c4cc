// Package errors provides structured error handling for the recommendation
// module.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/cineclass/cineclass/internal/types"
)

// ErrorType classifies recommendation errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeStore      ErrorType = "store"
)

// Sentinel errors for common scenarios
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoAnswers    = errors.New("answers are required")
	ErrStore        = errors.New("quiz history store failure")
)

// RecommendationError provides structured error information with context
type RecommendationError struct {
	Type   ErrorType
	Op     string
	UserID string
	Err    error
}

// Error implements the error interface
func (e *RecommendationError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s error in %s [user=%s]: %v", e.Type, e.Op, e.UserID, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RecommendationError) Unwrap() error {
	return e.Err
}

// AppError returns the API form of the error.
func (e *RecommendationError) AppError() *types.AppError {
	return ToAppError(e)
}

// Invalid reports bad input with a description.
func Invalid(op, format string, args ...interface{}) error {
	return &RecommendationError{Type: ErrorTypeValidation, Op: op, Err: fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))}
}

// NoAnswers reports a request without answers.
func NoAnswers(op string) error {
	return &RecommendationError{Type: ErrorTypeValidation, Op: op, Err: ErrNoAnswers}
}

// Store wraps a failed history store call.
func Store(op, userID string, err error) error {
	return &RecommendationError{Type: ErrorTypeStore, Op: op, UserID: userID, Err: fmt.Errorf("%w: %w", ErrStore, err)}
}

// ToAppError translates a recommendation error into the API error taxonomy.
func ToAppError(err error) *types.AppError {
	var appErr *types.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrNoAnswers):
		return types.NewValidationError("answers must contain at least one keyword")
	case errors.Is(err, ErrInvalidInput):
		v := types.NewValidationError("invalid request", err.Error())
		v.Cause = err
		return v
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewUpstreamError("quiz history store timed out", err)
	case errors.Is(err, ErrStore):
		return types.NewUpstreamError("quiz history store unavailable", err)
	default:
		return types.NewInternalError("recommendation failed", err)
	}
}
