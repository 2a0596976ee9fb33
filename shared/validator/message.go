package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"uuid":     "{field} must be a valid uuid",
	"unique":   "{field} must not contain duplicates",
	"weekday":  "{field} must be a weekday number between 1 (Monday) and 7 (Sunday)",
	"date":     "{field} must be a date formatted as YYYY-MM-DD",
	"clock":    "{field} must be a time of day formatted as HH:MM",
	"empty":    "{field} must be empty",
}

// lengthMessages replace the numeric wording when the field is measured by length.
var lengthMessages = map[string]string{
	"max": "{field} must have at most {param} {unit}",
	"min": "{field} must have at least {param} {unit}",
}

// message describes the first failed rule in err, falling back to the validator's own text.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fieldErr := range valErrors {
		if text := describe(fieldErr); text != "" {
			return text
		}
	}

	return valErrors.Error()
}

func describe(fieldErr val.FieldError) string {
	template := messages[fieldErr.Tag()]
	unit := ""

	switch fieldErr.Kind() {
	case reflect.String:
		unit = "characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = "items"
	}

	if lengthTemplate, ok := lengthMessages[fieldErr.Tag()]; ok && unit != "" {
		template = lengthTemplate
	}

	if template == "" {
		return ""
	}

	return strings.NewReplacer(
		"{field}", fieldErr.Field(),
		"{param}", fieldErr.Param(),
		"{unit}", unit,
	).Replace(template)
}
