// Package validation wraps go-playground/validator for the typed request
// structs. Each endpoint's request struct carries its own rule set in
// `validate` tags; Check runs them and returns a field→message map keyed by
// the json field name.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under json field names, not Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Check validates a request struct and returns per-field error messages.
// A nil map means the struct passed validation.
func Check(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "invalid request"}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		// Keep the first failure per field
		if _, exists := fields[fieldErr.Field()]; !exists {
			fields[fieldErr.Field()] = message(fieldErr)
		}
	}

	return fields
}

// message converts a single rule failure into a client-facing message
func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", fieldErr.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address", fieldErr.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters", fieldErr.Field(), fieldErr.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match", strings.TrimSuffix(fieldErr.Field(), "_confirmation"))
	default:
		return fmt.Sprintf("The %s field is invalid", fieldErr.Field())
	}
}
