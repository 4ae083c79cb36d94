package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, reporting fields by their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// ValidateStruct returns nil when s is valid, otherwise a message per field.
func ValidateStruct(s interface{}) map[string]string {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"non_field_errors": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, seen := fields[key]; !seen {
			fields[key] = fieldMessage(fe)
		}
	}
	return fields
}

// fieldPath drops the struct name from a namespace like "MediaRequest.genres[0].name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "datetime":
		return fmt.Sprintf("Date has wrong format. Use %s.", "YYYY-MM-DD")
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", minBound(fe))
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}

func minBound(fe validator.FieldError) string {
	if fe.Tag() == "gt" && fe.Param() == "0" {
		return "1"
	}
	return fe.Param()
}

// DecodeErrorFields turns a JSON type mismatch into a field error. It returns
// nil for malformed bodies, which have no field to blame.
func DecodeErrorFields(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil
	}

	field := typeErr.Field
	if field == "" {
		field = "non_field_errors"
	}

	message := "Invalid value."
	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		message = "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		message = "A valid number is required."
	case reflect.String:
		message = "Not a valid string."
	case reflect.Bool:
		message = "Must be a valid boolean."
	}
	return map[string]string{field: message}
}
