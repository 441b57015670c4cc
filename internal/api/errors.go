// Package api provides error handling utilities for HTTP APIs
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error   ErrorDetails `json:"error"`
	Success bool         `json:"success"`
}

// ErrorDetails contains detailed error information
type ErrorDetails struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// RespondWithError sends a structured error response. Errors that are not an
// *types.AppError are reported as internal errors and their text is only
// logged.
func RespondWithError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}

	appErr := AsAppError(err)
	logError(appErr, requestID, c.Request.URL.Path)

	c.JSON(appErr.HTTPStatus, ErrorResponse{
		Success: false,
		Error: ErrorDetails{
			Code:      string(appErr.Code),
			Message:   appErr.Message,
			Details:   appErr.Details,
			Retryable: appErr.Retryable,
			Context:   appErr.Context,
			RequestID: requestID,
		},
	})
}

// Translator is implemented by module errors that know their API form.
type Translator interface {
	AppError() *types.AppError
}

// AsAppError converts any error into an AppError.
func AsAppError(err error) *types.AppError {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var translator Translator
	if errors.As(err, &translator) {
		return translator.AppError()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewUpstreamError("upstream call timed out", err)
	}
	return types.NewInternalError("internal error", err)
}

// RespondWithValidationError sends a validation error response
func RespondWithValidationError(c *gin.Context, message string, details ...string) {
	RespondWithError(c, types.NewValidationError(message, details...))
}

// RespondWithNotFound sends a not found error response
func RespondWithNotFound(c *gin.Context, resource string, id string) {
	RespondWithError(c, types.NewNotFoundError(resource, id))
}

func logError(err *types.AppError, requestID, path string) {
	fields := []interface{}{
		"error_code", err.Code,
		"error_message", err.Message,
		"request_id", requestID,
		"path", path,
	}
	if err.Details != "" {
		fields = append(fields, "details", err.Details)
	}
	for k, v := range err.Context {
		fields = append(fields, k, v)
	}
	if err.Cause != nil {
		fields = append(fields, "cause", err.Cause.Error())
	}

	switch err.Severity {
	case types.SeverityCritical, types.SeverityError:
		logger.Error("request failed", fields...)
	case types.SeverityWarning:
		logger.Warn("request rejected", fields...)
	default:
		logger.Debug("request not served", fields...)
	}
}

// ErrorMiddleware is a middleware that recovers from panics and handles errors
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var err error
				switch v := r.(type) {
				case error:
					err = v
				case string:
					err = errors.New(v)
				default:
					err = fmt.Errorf("panic: %v", v)
				}

				logger.Error("panic recovered",
					"error", err,
					"request_path", c.Request.URL.Path,
					"request_method", c.Request.Method,
				)

				RespondWithError(c, types.NewInternalError("panic recovered", err))
				c.Abort()
			}
		}()

		c.Next()
	}
}

// NoRoute answers unknown paths in the standard error format.
func NoRoute(c *gin.Context) {
	RespondWithError(c, types.NewAppError(types.ErrorCodeNotFound, "route not found", http.StatusNotFound))
}
