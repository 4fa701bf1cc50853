package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"anoa.com/moviecatalog/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MinProductionYear is the year of the oldest surviving motion picture.
const MinProductionYear = 1888

// Register installs the custom rules and json field naming on gin's validator engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return Configure(v)
}

// Configure installs the custom rules on a validator instance.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return v.RegisterValidation("productionyear", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= MinProductionYear && year <= int64(MaxProductionYear())
	})
}

// MaxProductionYear allows announced titles up to five years ahead.
func MaxProductionYear() int {
	return time.Now().Year() + 5
}

// FormatValidationError converts binding errors into a field keyed ValidationError.
func FormatValidationError(err error) *apperror.ValidationError {
	fields := make(map[string][]string)

	var validationErrors validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &validationErrors):
		for _, fieldError := range validationErrors {
			name := fieldName(fieldError)
			fields[name] = append(fields[name], getFieldErrorMessage(fieldError, name))
		}
	case errors.As(err, &typeErr):
		name := typeErr.Field
		if name == "" {
			name = "body"
		}
		fields[name] = append(fields[name], fmt.Sprintf("The %s field must be of type %s.", name, typeErr.Type.String()))
	case errors.As(err, &syntaxErr):
		fields["body"] = []string{"The request body must be valid JSON."}
	default:
		fields["body"] = []string{err.Error()}
	}

	return &apperror.ValidationError{Fields: fields}
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func getFieldErrorMessage(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid. Allowed: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", strings.TrimSuffix(field, "_confirmation"))
	case "productionyear":
		return fmt.Sprintf("The %s field must be between %d and %d.", field, MinProductionYear, MaxProductionYear())
	case "min", "gte":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max", "lte":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
