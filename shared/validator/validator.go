package validator

import (
	"encoding/json"
	"fieldbook/shared/failure"
	"fieldbook/shared/model"
	"fmt"
	"io"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const (
	minWeekday = 1
	maxWeekday = 7
)

var validate *val.Validate

// weekday accepts the 1-7, Monday-first numbering used by recurrence rules.
func validateWeekday(field val.FieldLevel) bool {
	switch field.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		day := field.Field().Int()

		return day >= minWeekday && day <= maxWeekday
	default:
		return false
	}
}

func validateDate(field val.FieldLevel) bool {
	_, err := model.ParseDate(field.Field().String())

	return err == nil
}

func validateClock(field val.FieldLevel) bool {
	_, err := model.ParseClock(field.Field().String())

	return err == nil
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]val.Func{
		"empty":   func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"weekday": validateWeekday,
		"date":    validateDate,
		"clock":   validateClock,
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(data)
	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
