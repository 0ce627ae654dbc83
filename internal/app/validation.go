package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
	"recruitportal/internal/importer"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "department", func(fl validator.FieldLevel) bool {
		return application.IsKnownDepartment(fl.Field().String())
	})
	mustRegister(v, "year", func(fl validator.FieldLevel) bool {
		return application.IsKnownYear(fl.Field().String())
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return application.IsCanonicalRole(importer.NormalizeRole(fl.Field().String()))
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		_, ok := application.ParseStatus(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validationError turns validator output into the coded error handlers render.
func validationError(err error) *common.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return common.NewError(common.CodeValidation, "invalid request", err)
	}
	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldKey(fieldErr)] = fieldMessage(fieldErr)
	}
	return common.NewValidationError("validation failed", fields)
}

func fieldKey(fieldErr validator.FieldError) string {
	namespace := fieldErr.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return fieldErr.Field()
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
	case "department":
		return "Invalid department: " + fmt.Sprint(fieldErr.Value())
	case "year":
		return "Invalid year: " + fmt.Sprint(fieldErr.Value())
	case "role":
		return "Invalid role: " + fmt.Sprint(fieldErr.Value())
	case "status":
		return "Invalid status: " + fmt.Sprint(fieldErr.Value())
	default:
		return fieldErr.Field() + " is invalid"
	}
}

// FlexBool decodes true/false as well as the yes/no strings web forms send.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = FlexBool(importer.NormalizeBoolValue(raw))
	return nil
}
