// Package errors provides structured error handling for the catalog module.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/cineclass/cineclass/internal/types"
)

// ErrorType classifies catalog errors
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeStore      ErrorType = "store"
)

// Sentinel errors for common scenarios
var (
	// ErrTitleNotFound indicates a title id doesn't exist or is hidden
	ErrTitleNotFound = errors.New("title not found")

	// ErrInvalidInput indicates invalid request parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoKeywords indicates a keyword search without a usable keyword
	ErrNoKeywords = errors.New("no usable keywords")

	// ErrStore indicates a catalog store call failed or timed out
	ErrStore = errors.New("catalog store failure")
)

// CatalogError provides structured error information with context
type CatalogError struct {
	Type    ErrorType
	Op      string
	TitleID string
	Err     error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	if e.TitleID != "" {
		return fmt.Sprintf("%s error in %s [title=%s]: %v", e.Type, e.Op, e.TitleID, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// AppError returns the API form of the error.
func (e *CatalogError) AppError() *types.AppError {
	return ToAppError(e)
}

// NotFound reports a missing title.
func NotFound(op, titleID string) error {
	return &CatalogError{Type: ErrorTypeNotFound, Op: op, TitleID: titleID, Err: ErrTitleNotFound}
}

// Invalid reports bad input with a description.
func Invalid(op, format string, args ...interface{}) error {
	return &CatalogError{Type: ErrorTypeValidation, Op: op, Err: fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))}
}

// Store wraps a failed store call.
func Store(op string, err error) error {
	return &CatalogError{Type: ErrorTypeStore, Op: op, Err: fmt.Errorf("%w: %w", ErrStore, err)}
}

// IsNotFound reports whether err is a missing title.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTitleNotFound)
}

// ToAppError translates a catalog error into the API error taxonomy. The
// original error is kept as the cause for logging.
func ToAppError(err error) *types.AppError {
	var appErr *types.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrTitleNotFound):
		var ce *CatalogError
		id := ""
		if errors.As(err, &ce) {
			id = ce.TitleID
		}
		return types.NewNotFoundError("title", id)
	case errors.Is(err, ErrNoKeywords):
		return types.NewValidationError("answers contain no usable keywords")
	case errors.Is(err, ErrInvalidInput):
		v := types.NewValidationError("invalid request", err.Error())
		v.Cause = err
		return v
	case errors.Is(err, context.DeadlineExceeded):
		return types.NewUpstreamError("catalog store timed out", err)
	case errors.Is(err, ErrStore):
		return types.NewUpstreamError("catalog store unavailable", err)
	default:
		return types.NewInternalError("catalog operation failed", err)
	}
}
