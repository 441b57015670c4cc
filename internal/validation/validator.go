// Package validation validates request structs with go-playground/validator.
// Handlers decode with gin and then call ValidateStruct, which reports
// failures as VALIDATION_ERROR app errors.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator with the custom tags
// registered: mediatype and role.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
			return database.MediaType(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return database.Role(fl.Field().String()).Valid()
		})
	})
	return validate
}

// ValidateStruct validates s and returns a validation AppError describing
// every failed field, or nil.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return types.NewValidationError("invalid request", err.Error())
	}

	messages := make([]string, len(fieldErrs))
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = translateError(fe)
		fields[i] = fe.Field()
	}
	appErr := types.NewValidationError(strings.Join(messages, "; "))
	appErr.Context = map[string]interface{}{"fields": fields}
	return appErr
}

// BindError reports a request that could not be decoded.
func BindError(err error) error {
	return types.NewValidationError("malformed request", err.Error())
}

var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"email":     "%s must be a valid email address",
	"mediatype": "%s must be movie or tv",
	"role":      "%s must be student or teacher",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
